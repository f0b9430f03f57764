package main

import (
	api "VibeShared"
)

// @title VibeShared API
// @version 1.0
// @description API for posts, follows, tipping, and engagement
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Provide a valid JWT as: Bearer <token>
func main() {
	api.Run()
}
