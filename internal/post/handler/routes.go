package handler

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the post endpoints behind gate.
func RegisterRoutes(app *fiber.App, h *PostHandler, gate fiber.Handler) {
	app.Post("/api/insert/addPost", gate, h.AddPost)
	app.Delete("/api/delete/deletePost/:post_id", gate, h.DeletePost)

	read := []fiber.Handler{gate}
	if h.cache != nil {
		read = append(read, h.cache.Middleware("getPosts"))
	}
	read = append(read, h.GetPosts)
	app.Get("/api/read/getPosts", read...)
}
