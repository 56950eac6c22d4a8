// Package routes cung cấp tất cả routing functions cho Pickup Address Parser Service
//
// Cấu trúc:
// - api.go: API routes (/v1/*), health, metrics
// - web.go: Web routes (/, /docs)
//
// Sử dụng:
// routes.SetupAllRoutes(router, addressController, adminController)
package routes
