package movie

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/SlpAus/top-movies-backend/internal/tmdb"
	"github.com/SlpAus/top-movies-backend/internal/user"
	"github.com/SlpAus/top-movies-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	formEdit = "edit"
	formAdd  = "add"
)

// Handler 持有处理电影页面所需的全部依赖，在启动时构造一次
type Handler struct {
	service  *Service
	searcher tmdb.Searcher
	signer   *token.Signer
}

func NewHandler(service *Service, searcher tmdb.Searcher, signer *token.Signer) *Handler {
	registerValidations()
	return &Handler{
		service:  service,
		searcher: searcher,
		signer:   signer,
	}
}

// --- 辅助函数 ---

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) csrfToken(c *gin.Context, form string) string {
	browserID := user.BrowserID(c)
	if browserID == "" {
		return ""
	}
	sig, err := h.signer.Generate(token.TokenPayload{BrowserID: browserID, Form: form})
	if err != nil {
		slog.Error("生成表单令牌失败", "error", err)
		return ""
	}
	return sig
}

func (h *Handler) validCSRF(c *gin.Context, form, submitted string) bool {
	return h.signer.Validate(token.TokenPayload{BrowserID: user.BrowserID(c), Form: form}, submitted)
}

func renderError(c *gin.Context, status int, message string, extra gin.H) {
	data := gin.H{
		"PageTitle":  http.StatusText(status),
		"Status":     status,
		"StatusText": http.StatusText(status),
		"Message":    message,
	}
	for k, v := range extra {
		data[k] = v
	}
	c.HTML(status, "error.html", data)
}

func renderNotFound(c *gin.Context, what string) {
	renderError(c, http.StatusNotFound, what+" was not found.", nil)
}

func renderServerError(c *gin.Context, err error) {
	_ = c.Error(err)
	slog.Error("请求处理失败", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	renderError(c, http.StatusInternalServerError, "Something went wrong while handling your request.", nil)
}

// --- 控制器函数 ---

// ListMovies 渲染按评分排序的电影列表
func (h *Handler) ListMovies(c *gin.Context) {
	movies, err := h.service.ListRanked(c.Request.Context())
	if err != nil {
		renderServerError(c, err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Movies": movies,
	})
}

func (h *Handler) renderEdit(c *gin.Context, m *Movie, form EditForm, errs FormErrors) {
	c.HTML(http.StatusOK, "edit.html", gin.H{
		"PageTitle": "Edit " + m.Title,
		"ID":        m.ID,
		"Movie":     m,
		"Form":      form,
		"Errors":    errs,
		"CSRFToken": h.csrfToken(c, formEdit),
	})
}

// ShowEdit 渲染空白的编辑表单
func (h *Handler) ShowEdit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		renderNotFound(c, "Movie")
		return
	}
	m, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		renderNotFound(c, fmt.Sprintf("Movie %d", id))
		return
	}
	if err != nil {
		renderServerError(c, err)
		return
	}
	h.renderEdit(c, m, EditForm{}, nil)
}

// SubmitEdit 校验并保存评分和评论，成功后跳转回列表
func (h *Handler) SubmitEdit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		renderNotFound(c, "Movie")
		return
	}
	ctx := c.Request.Context()
	m, err := h.service.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		renderNotFound(c, fmt.Sprintf("Movie %d", id))
		return
	}
	if err != nil {
		renderServerError(c, err)
		return
	}

	var form EditForm
	errs := FormErrors{}
	if bindErr := c.ShouldBind(&form); bindErr != nil {
		errs = toFormErrors(bindErr)
	}
	if !h.validCSRF(c, formEdit, form.CSRFToken) {
		errs[fieldCSRF] = msgInvalidCSRF
	}
	if len(errs) > 0 {
		h.renderEdit(c, m, form, errs)
		return
	}

	_, err = h.service.UpdateReview(ctx, id, form.RatingValue(), strings.TrimSpace(form.Review))
	if errors.Is(err, ErrNotFound) {
		// 在读取和更新之间被删除
		renderNotFound(c, fmt.Sprintf("Movie %d", id))
		return
	}
	if err != nil {
		renderServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// DeleteMovie 立即删除电影并跳转回列表
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		renderNotFound(c, "Movie")
		return
	}
	err := h.service.Delete(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		renderNotFound(c, fmt.Sprintf("Movie %d", id))
		return
	}
	if err != nil {
		renderServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) renderAdd(c *gin.Context, form AddForm, errs FormErrors) {
	c.HTML(http.StatusOK, "add.html", gin.H{
		"PageTitle": "Add a Movie",
		"Form":      form,
		"Errors":    errs,
		"CSRFToken": h.csrfToken(c, formAdd),
	})
}

// ShowAdd 渲染搜索表单
func (h *Handler) ShowAdd(c *gin.Context) {
	h.renderAdd(c, AddForm{}, nil)
}

// SubmitAdd 校验搜索词，调用TMDB搜索并渲染候选列表。
// 上游失败时返回 500，不做重试。
func (h *Handler) SubmitAdd(c *gin.Context) {
	var form AddForm
	errs := FormErrors{}
	if bindErr := c.ShouldBind(&form); bindErr != nil {
		errs = toFormErrors(bindErr)
	}
	if !h.validCSRF(c, formAdd, form.CSRFToken) {
		errs[fieldCSRF] = msgInvalidCSRF
	}
	if len(errs) > 0 {
		h.renderAdd(c, form, errs)
		return
	}

	results, err := h.searcher.Search(c.Request.Context(), form.Query())
	if err != nil {
		var upstream *tmdb.UpstreamError
		if errors.As(err, &upstream) {
			slog.Error("TMDB搜索返回错误状态", "status", upstream.StatusCode)
		}
		renderServerError(c, fmt.Errorf("搜索 %q 失败: %w", form.Query(), err))
		return
	}

	c.HTML(http.StatusOK, "select.html", gin.H{
		"PageTitle": "Select Movie",
		"Query":     form.Query(),
		"Results":   results,
	})
}

// NewMovie 用路径中的字段创建草稿记录，然后跳转到它的编辑页
func (h *Handler) NewMovie(c *gin.Context) {
	title := c.Param("title")
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || strings.TrimSpace(title) == "" {
		renderNotFound(c, "Movie")
		return
	}
	overview := c.Param("overview")
	image := strings.TrimLeft(c.Param("image"), "/")

	ctx := c.Request.Context()
	id, err := h.service.AddDraft(ctx, title, year, overview, image)
	if errors.Is(err, ErrDuplicateTitle) {
		extra := gin.H{}
		if existing, ok, lookupErr := h.service.ExistingID(ctx, title); lookupErr == nil && ok {
			extra["Link"] = fmt.Sprintf("/edit/%d", existing)
			extra["LinkText"] = "Edit the existing entry"
		}
		renderError(c, http.StatusConflict, fmt.Sprintf("%q is already in your list.", title), extra)
		return
	}
	if err != nil {
		renderServerError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/edit/%d", id))
}
