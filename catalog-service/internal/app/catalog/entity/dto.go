package entity

type CategoryRequest struct {
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewCategoryResponse(c *Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name}
}

type OptionRequest struct {
	OptionDetail string `json:"optionDetail"`
	Price        int    `json:"price"`
	Stock        int    `json:"stock"`
}

type CreateProductRequest struct {
	ProductName string          `json:"productName"`
	Description string          `json:"description"`
	Price       *int            `json:"price"`
	Stock       *int            `json:"stock"`
	OptionName  string          `json:"optionName"`
	CategoryID  *int64          `json:"categoryId"`
	ImageIDs    []int64         `json:"imageIds"`
	Options     []OptionRequest `json:"options"`
}

type ImageUploadResponse struct {
	ImageID  int64  `json:"imageId"`
	ImageURL string `json:"imageUrl"`
}

// Response is the envelope of every HTTP response.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

