package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"certcanvas/api-gateway/config"
	"certcanvas/api-gateway/handlers"
	"certcanvas/api-gateway/internal/store"
	"certcanvas/api-gateway/middleware"
)

func main() {
	config.InitLogger()

	// Initialize Supabase client
	if err := config.InitSupabase(); err != nil {
		log.Fatalf("Failed to initialize Supabase: %v", err)
	}

	datastore := store.NewPostgrestStore(config.SupabaseClient)
	storage := store.NewSupabaseStorage(config.GetSupabaseURL(), config.GetSupabaseKey())
	handler := handlers.NewApplicationHandler(datastore, storage, config.Log)

	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Allow all origins for development
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(middleware.RequestLogger(config.Log))

	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "API Gateway is healthy",
		})
	})

	// API v1 routes
	apiV1 := app.Group("/api/v1")

	// Template routes
	apiV1.Post("/templates", handler.CreateTemplate)
	apiV1.Get("/templates", handler.GetTemplates)
	apiV1.Get("/templates/:id", handler.GetTemplate)
	apiV1.Patch("/templates/:id", handler.UpdateTemplate)
	apiV1.Delete("/templates/:id", handler.DeleteTemplate)
	apiV1.Post("/templates/:id/image", handler.UploadTemplateImage)

	// Persisted field set (replace-all save)
	apiV1.Get("/templates/:id/fields", handler.ListFields)
	apiV1.Put("/templates/:id/fields", handler.ReplaceFields)

	// Editor sessions
	apiV1.Post("/templates/:id/editor", handler.OpenEditor)
	editorRoutes := apiV1.Group("/editor/:sessionId")
	editorRoutes.Delete("", handler.CloseEditor)
	editorRoutes.Post("/fields", handler.AddEditorField)
	editorRoutes.Patch("/fields/:fieldKey", handler.UpdateEditorField)
	editorRoutes.Delete("/fields/:fieldKey", handler.RemoveEditorField)
	editorRoutes.Post("/selection", handler.SetSelection)
	editorRoutes.Post("/save", handler.SaveEditor)

	// Preview over an uploaded row-set
	editorRoutes.Post("/rowset", handler.UploadEditorRowSet)
	editorRoutes.Patch("/mapping", handler.SetEditorMapping)
	editorRoutes.Get("/preview", handler.GetPreview)
	editorRoutes.Post("/preview/next", handler.PreviewNext)
	editorRoutes.Post("/preview/prev", handler.PreviewPrev)
	editorRoutes.Post("/preview/index", handler.PreviewSetIndex)

	// Batch routes
	apiV1.Post("/batches", handler.CreateBatch)
	apiV1.Get("/batches", handler.GetBatches)
	apiV1.Get("/batches/:id", handler.GetBatch)
	apiV1.Post("/batches/:id/generate", handler.GenerateBatch)
	apiV1.Post("/batches/:id/send", handler.SendBatch)
	apiV1.Get("/batches/:id/certificates", handler.ListCertificates)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting API Gateway on port %s...", port)
	log.Fatal(app.Listen(":" + port))
}
