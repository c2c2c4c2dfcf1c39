package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Register godoc
// @Summary Register a new user
// @Description Create a new user account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string,full_name=string} true "User registration data"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /auth/register [post]
func (h *UserHandler) RegisterDoc() {}

// Login godoc
// @Summary User login
// @Description Authenticate user and get JWT token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login credentials"
// @Success 200 {object} object{success=bool,data=object{token=string,user=object}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /auth/login [post]
func (h *UserHandler) LoginDoc() {}

// GetProfile godoc
// @Summary Get current user profile
// @Description Get authenticated user's profile information
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /users/me [get]
func (h *UserHandler) GetProfileDoc() {}

// UpdateProfile godoc
// @Summary Update current user profile
// @Description Update authenticated user's profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{email=string,full_name=string} true "Update data"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /users/me [put]
func (h *UserHandler) UpdateProfileDoc() {}

// CreateUser godoc
// @Summary Create user (admin)
// @Description Admin endpoint to create a new user with a specified role
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string,full_name=string,role=string} true "User data"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /admin/users [post]
func (h *UserHandler) CreateUserDoc() {}

// ListUsers godoc
// @Summary List all users (admin)
// @Description Admin endpoint to list users with pagination
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=object{users=array,total=int}}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /admin/users [get]
func (h *UserHandler) ListUsersDoc() {}

// ChangeRole godoc
// @Summary Change user role (admin)
// @Description Admin endpoint to change a user's role
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{role=string} true "New role"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /admin/users/{id}/role [put]
func (h *UserHandler) ChangeRoleDoc() {}

// GrantPermission godoc
// @Summary Grant a permission (admin)
// @Description Grant a role one action on one module
// @Tags Permissions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{role=string,module=string,action=string} true "Permission"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /admin/permissions [post]
func (h *UserHandler) GrantPermissionDoc() {}

// RevokePermission godoc
// @Summary Revoke a permission (admin)
// @Description Remove a role's action on a module
// @Tags Permissions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{role=string,module=string,action=string} true "Permission"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /admin/permissions [delete]
func (h *UserHandler) RevokePermissionDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string}
// @Failure 503 {object} object{status=string,error=string}
// @Router /health [get]
func (h *UserHandler) HealthCheckDoc() {}
