package handler

// UserHandlerV2 serves /v2. It currently behaves exactly like v1; override
// methods here when the versions diverge.
type UserHandlerV2 struct {
	*UserHandler
}

// NewUserHandlerV2 builds the v2 handler on top of the shared v1 handler.
func NewUserHandlerV2(base *UserHandler) *UserHandlerV2 {
	return &UserHandlerV2{UserHandler: base}
}

var (
	_ UserRoutes = (*UserHandler)(nil)
	_ UserRoutes = (*UserHandlerV2)(nil)
)
