// Package view 负责渲染 webui 的 HTML 页面并提供内嵌的静态资源。
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageRenderer 通过一组预先解析的模板渲染页面。
type PageRenderer struct {
	templates map[string]*template.Template
}

// NewPageRenderer 解析内嵌的模板。key 是页面名，value 是该页面用到的模板文件。
func NewPageRenderer(pages map[string][]string) (*PageRenderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, files := range pages {
		t, err := template.ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	return &PageRenderer{templates: templates}, nil
}

// MustPageRenderer 与 NewPageRenderer 相同，解析失败时 panic。
func MustPageRenderer() *PageRenderer {
	r, err := NewPageRenderer(map[string][]string{
		"index.html": {"templates/index.html"},
	})
	if err != nil {
		panic(err)
	}
	return r
}

// RenderTemplate 渲染名为 name 的页面，页面不存在时返回错误。
func (r *PageRenderer) RenderTemplate(w io.Writer, name string, data any) error {
	if t, ok := r.templates[name]; ok {
		return t.ExecuteTemplate(w, name, data)
	}
	return fmt.Errorf("template is missing: %s", name)
}

// StaticFS 返回 static 目录下的静态资源。
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
