package post

type CreateReq struct {
	Content  string `json:"content" validate:"max=2200"`
	ImageURL string `json:"image_url" validate:"omitempty,url,max=512"`
}

type ListResp struct {
	Items  []View `json:"items"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}
