package user

type SignUpReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"required,min=3,max=64,username"`
	FullName string `json:"full_name" validate:"required,max=255"`
}

type SignInReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResp struct {
	AccessToken string  `json:"access_token"`
	User        Profile `json:"user"`
}
