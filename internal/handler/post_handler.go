package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"
	"instaclone/internal/models"
	"instaclone/internal/repository"
	"instaclone/internal/service"
)

// multipartMemory is kept in memory by ParseMultipartForm, the rest spills to temp files
const multipartMemory = 8 << 20

// allowedImageTypes are matched against the sniffed content, not the client header
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type PostResponse struct {
	PostID      string       `json:"postId"`
	Description string       `json:"description"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Author      UserResponse `json:"author"`
	LikedBy     []string     `json:"likedBy"`
	LikeCount   int          `json:"likeCount"`
}

type PostsGetResponse struct {
	Posts []PostResponse `json:"posts"`
}

func newPostResponse(post *models.Post) PostResponse {
	likedBy := post.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}

	author := newUserResponse(post.Author)
	if author.UserID == "" {
		author.UserID = post.AuthorID
	}

	return PostResponse{
		PostID:      post.PostID,
		Description: post.Description,
		ImageURL:    post.ImageURL,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
		Author:      author,
		LikedBy:     likedBy,
		LikeCount:   len(likedBy),
	}
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	query := repository.PostQuery{AuthorID: r.URL.Query().Get("author")}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, "Неверный параметр limit", http.StatusBadRequest)
			return
		}
		query.Limit = limit
	}

	posts, err := h.PostService.ListPosts(r.Context(), query.Normalize())
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := PostsGetResponse{Posts: make([]PostResponse, 0, len(posts))}
	for _, post := range posts {
		response.Posts = append(response.Posts, newPostResponse(post))
	}

	WriteSuccess(w, response, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err, "Пост не найден")
		return
	}

	WriteSuccess(w, newPostResponse(post), http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	authorID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	image, cleanup, ok := h.readImage(w, r)
	if !ok {
		return
	}
	defer cleanup()

	req := repository.CreatePostRequest{
		AuthorID:    authorID,
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	// checking the caption of the post
	if req.Description == "" {
		WriteError(w, "Отсутствует описание", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), req, image)
	if err != nil {
		writeServiceError(w, err, "Автор не найден")
		return
	}

	WriteSuccess(w, newPostResponse(post), http.StatusCreated)
}

func (h *Handlers) AddLike(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, h.PostService.AddLike)
}

func (h *Handlers) RemoveLike(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, h.PostService.RemoveLike)
}

func (h *Handlers) toggleLike(w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, postID, userID string) (*service.LikeResult, error)) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	result, err := apply(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, err, "Пост не найден")
		return
	}

	WriteSuccess(w, result, http.StatusOK)
}

// readImage parses the multipart body and sniffs the "image" part. cleanup must run after the upload.
func (h *Handlers) readImage(w http.ResponseWriter, r *http.Request) (service.ImageUpload, func(), bool) {
	noop := func() {}

	// setting the size limit from the config
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, fmt.Sprintf("Файл слишком большой (макс. %s)",
				humanize.Bytes(uint64(h.Cfg.MaxUploadSize))), http.StatusRequestEntityTooLarge)
		} else {
			WriteError(w, "Ошибка при обработке файла", http.StatusBadRequest)
		}
		return service.ImageUpload{}, noop, false
	}

	// getting the file
	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, "Отсутствует изображение", http.StatusBadRequest)
		return service.ImageUpload{}, noop, false
	}

	cleanup := func() {
		file.Close()
		r.MultipartForm.RemoveAll()
	}

	if header.Size > h.Cfg.MaxUploadSize {
		cleanup()
		WriteError(w, fmt.Sprintf("Файл слишком большой: %s (макс. %s)",
			humanize.Bytes(uint64(header.Size)), humanize.Bytes(uint64(h.Cfg.MaxUploadSize))), http.StatusRequestEntityTooLarge)
		return service.ImageUpload{}, noop, false
	}

	// check formats
	detected, err := mimetype.DetectReader(file)
	if err != nil || !isAllowedImage(detected) {
		cleanup()
		WriteError(w, "Неподдерживаемый тип файла. Разрешены: JPEG, PNG, GIF, WebP", http.StatusUnsupportedMediaType)
		return service.ImageUpload{}, noop, false
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		cleanup()
		WriteError(w, "Ошибка при обработке файла", http.StatusInternalServerError)
		return service.ImageUpload{}, noop, false
	}

	return service.ImageUpload{
		FileName:    header.Filename,
		ContentType: detected.String(),
		Size:        header.Size,
		Body:        file,
	}, cleanup, true
}

func isAllowedImage(detected *mimetype.MIME) bool {
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}
