package httphandler

type (
	Product struct {
		ID     int64   `json:"id"`
		Name   string  `json:"name"`
		Price  float64 `json:"price"`
		Status string  `json:"status"`
	}

	ProductPayload struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
)

type (
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	LoginResponse struct {
		Email string `json:"email"`
		Role  string `json:"role"`
		Token string `json:"token"`
	}
)
