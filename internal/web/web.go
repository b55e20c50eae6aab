package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// NoOverview 用于替代空的电影简介，保证路由段非空
const NoOverview = "No overview available."

// FuncMap 返回模板中可用的辅助函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatRating":  FormatRating,
		"newMoviePath":  NewMoviePath,
		"pathEscape":    url.PathEscape,
		"posterSegment": PosterSegment,
	}
}

// Templates 解析内嵌的全部页面模板
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("无法解析页面模板: %w", err)
	}
	return tmpl, nil
}

// FormatRating 把评分格式化为 "7.4/10"
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64) + "/10"
}

// PosterSegment 去掉TMDB海报路径开头的斜杠
func PosterSegment(posterPath string) string {
	return strings.TrimLeft(posterPath, "/")
}

// NewMoviePath 构造 /new_movie/{title}/{year}/{overview}/{image}，每一段都做路径转义
func NewMoviePath(title string, year int, overview, posterPath string) string {
	if strings.TrimSpace(overview) == "" {
		overview = NoOverview
	}
	return "/new_movie/" +
		url.PathEscape(title) + "/" +
		strconv.Itoa(year) + "/" +
		url.PathEscape(overview) + "/" +
		url.PathEscape(PosterSegment(posterPath))
}
