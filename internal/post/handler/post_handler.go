package handler

import (
	"io"
	"strconv"

	authhandler "github.com/AnthoniusHendriyanto/post-service/internal/auth/handler"
	autherror "github.com/AnthoniusHendriyanto/post-service/internal/errors"
	"github.com/AnthoniusHendriyanto/post-service/internal/post/dto"
	"github.com/AnthoniusHendriyanto/post-service/internal/post/service"
	"github.com/gofiber/fiber/v2"
)

const formFieldImage = "post_image"

type PostHandler struct {
	postService *service.PostService
	cache       *ResponseCache
}

// NewPostHandler wires the post endpoints. cache may be nil to disable
// response caching.
func NewPostHandler(postService *service.PostService, cache *ResponseCache) *PostHandler {
	return &PostHandler{postService: postService, cache: cache}
}

func (h *PostHandler) AddPost(c *fiber.Ctx) error {
	userID, ok := authhandler.CurrentUserID(c)
	if !ok {
		return authhandler.WriteError(c, autherror.ErrInvalidToken)
	}

	fileHeader, err := c.FormFile(formFieldImage)
	if err != nil {
		return authhandler.WriteError(c, autherror.ErrMissingImage)
	}

	limit := h.postService.MaxUploadBytes()
	if fileHeader.Size > limit {
		return authhandler.WriteError(c, autherror.ErrFileTooLarge)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return authhandler.WriteError(c, autherror.Internal(err))
	}
	defer file.Close()

	// One byte over the limit is enough to reject.
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return authhandler.WriteError(c, autherror.Internal(err))
	}

	resp, err := h.postService.Create(c.UserContext(), userID, dto.UploadInput{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Data:     data,
	})
	if err != nil {
		return authhandler.WriteError(c, err)
	}

	h.invalidate(userID)
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	userID, ok := authhandler.CurrentUserID(c)
	if !ok {
		return authhandler.WriteError(c, autherror.ErrInvalidToken)
	}

	resp, err := h.postService.Delete(c.UserContext(), userID, c.Params("post_id"))
	if err != nil {
		return authhandler.WriteError(c, err)
	}

	h.invalidate(userID)
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PostHandler) GetPosts(c *fiber.Ctx) error {
	userID, ok := authhandler.CurrentUserID(c)
	if !ok {
		return authhandler.WriteError(c, autherror.ErrInvalidToken)
	}

	page, err := queryInt(c, "page_num", service.DefaultPage)
	if err != nil {
		return authhandler.WriteError(c, autherror.ErrInvalidPagination)
	}
	pageSize, err := queryInt(c, "page_size", service.DefaultPageSize)
	if err != nil {
		return authhandler.WriteError(c, autherror.ErrInvalidPagination)
	}

	resp, err := h.postService.List(c.UserContext(), userID, page, pageSize)
	if err != nil {
		return authhandler.WriteError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *PostHandler) invalidate(userID string) {
	if h.cache != nil {
		h.cache.InvalidateUser(userID)
	}
}

// queryInt parses an optional integer query parameter. Unlike c.QueryInt it
// reports malformed values instead of falling back to the default.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
