package main

// @title Catalog Admin API
// @version 1.0
// @description Multi-tenant catalog and inventory administration API with consistent stock and taxonomy counters
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:8081
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Authentication endpoints

// @tag.name Products
// @tag.description Product catalog and stock endpoints

// @tag.name Purchases
// @tag.description Supplier purchase endpoints

// @tag.name Taxonomy
// @tag.description Catalog/category/brand/website/vendor endpoints

// @tag.name Users
// @tag.description User profile endpoints

// @tag.name Admin
// @tag.description Admin-only endpoints

// @tag.name Permissions
// @tag.description Role permission management

// @tag.name Health
// @tag.description Health check endpoints
