package handler

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
)

type DocsHandler struct {
	once sync.Once
	doc  gin.H
}

func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

func (h *DocsHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Nobzo Blog API"})
}

// OpenAPI serves an OpenAPI 3 description of the /api routes.
func (h *DocsHandler) OpenAPI(c *gin.Context) {
	h.once.Do(func() { h.doc = openAPIDocument() })
	c.JSON(http.StatusOK, h.doc)
}

const referencePage = `<!doctype html>
<html>
  <head>
    <title>Nobzo Blog API Reference</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>
  <body>
    <script id="api-reference" data-url="/openapi.json" data-configuration='{"theme":"purple"}'></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>
`

// Reference serves an interactive API reference rendered from /openapi.json.
func (h *DocsHandler) Reference(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(referencePage))
}

var errorDescriptions = map[int]string{
	http.StatusBadRequest:          "Validation failed or bad request",
	http.StatusUnauthorized:        "Unauthorized - Authentication required",
	http.StatusForbidden:           "Forbidden - Insufficient permissions",
	http.StatusNotFound:            "Resource not found",
	http.StatusInternalServerError: "Internal server error",
}

type endpoint struct {
	summary  string
	secured  bool
	status   int
	params   []gin.H
	body     gin.H
	data     gin.H
	errors   []int
	messages map[int]string
}

func (e endpoint) operation() gin.H {
	status := e.status
	if status == 0 {
		status = http.StatusOK
	}
	responses := gin.H{
		statusKey(status): gin.H{
			"description": "Operation successful",
			"content":     jsonContent(successSchema(e.data)),
		},
	}

	errs := e.errors
	if errs == nil {
		errs = []int{http.StatusBadRequest, http.StatusInternalServerError}
	}
	if e.secured {
		errs = append(errs, http.StatusUnauthorized)
	}
	for _, code := range errs {
		desc := e.messages[code]
		if desc == "" {
			desc = errorDescriptions[code]
		}
		responses[statusKey(code)] = gin.H{
			"description": desc,
			"content":     jsonContent(gin.H{"$ref": "#/components/schemas/Error"}),
		}
	}

	op := gin.H{"summary": e.summary, "responses": responses}
	if len(e.params) > 0 {
		op["parameters"] = e.params
	}
	if e.body != nil {
		op["requestBody"] = gin.H{"required": true, "content": jsonContent(e.body)}
	}
	if e.secured {
		op["security"] = []gin.H{{"bearerAuth": []string{}, "cookieAuth": []string{}}}
	}
	return op
}

func openAPIDocument() gin.H {
	ref := func(name string) gin.H { return gin.H{"$ref": "#/components/schemas/" + name} }
	str := gin.H{"type": "string"}
	tags := gin.H{"type": "array", "items": str}
	status := gin.H{"type": "string", "enum": []string{"draft", "published"}}
	authData := object(gin.H{"token": str, "user": ref("User")}, "token", "user")

	idParam := pathParam("id", gin.H{"type": "integer", "minimum": 1})
	slugParam := pathParam("slug", gin.H{"type": "string", "minLength": 1})

	paths := gin.H{
		"/api/auth/register": gin.H{"post": endpoint{
			summary: "Register a new user",
			status:  http.StatusCreated,
			body: object(gin.H{
				"name":     gin.H{"type": "string", "minLength": 2},
				"email":    gin.H{"type": "string", "format": "email"},
				"password": gin.H{"type": "string", "minLength": 6},
			}, "name", "email", "password"),
			data:     authData,
			messages: map[int]string{http.StatusBadRequest: "Registration failed (e.g., email already taken or invalid input)"},
		}.operation()},
		"/api/auth/login": gin.H{"post": endpoint{
			summary: "User login",
			body: object(gin.H{
				"email":    gin.H{"type": "string", "format": "email"},
				"password": str,
			}, "email", "password"),
			data:     authData,
			errors:   []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError},
			messages: map[int]string{http.StatusUnauthorized: "Invalid email or password"},
		}.operation()},
		"/api/auth/logout": gin.H{"post": endpoint{
			summary: "User logout",
			secured: true,
			errors:  []int{http.StatusInternalServerError},
		}.operation()},
		"/api/posts": gin.H{
			"get": endpoint{
				summary: "Get all posts",
				params: []gin.H{
					queryParam("page", gin.H{"type": "integer", "minimum": 1, "default": 1}),
					queryParam("limit", gin.H{"type": "integer", "minimum": 1, "maximum": 100, "default": 10}),
					queryParam("search", str),
					queryParam("tag", str),
					queryParam("author", gin.H{"type": "integer"}),
					queryParam("status", status),
				},
				data: object(gin.H{
					"posts":      gin.H{"type": "array", "items": ref("Post")},
					"pagination": ref("Pagination"),
				}, "posts", "pagination"),
			}.operation(),
			"post": endpoint{
				summary: "Create a post",
				secured: true,
				status:  http.StatusCreated,
				body: object(gin.H{
					"title":   gin.H{"type": "string", "minLength": 1},
					"content": gin.H{"type": "string", "minLength": 1},
					"status":  status,
					"tags":    tags,
				}, "title", "content"),
				data: ref("Post"),
			}.operation(),
		},
		"/api/posts/{slug}": gin.H{"get": endpoint{
			summary: "Get post by slug",
			params:  []gin.H{slugParam},
			data:    ref("Post"),
			errors:  []int{http.StatusNotFound},
		}.operation()},
		"/api/posts/{id}": gin.H{
			"put": endpoint{
				summary: "Update post",
				secured: true,
				params:  []gin.H{idParam},
				body: object(gin.H{
					"title":   gin.H{"type": "string", "minLength": 1},
					"content": gin.H{"type": "string", "minLength": 1},
					"status":  status,
					"tags":    tags,
				}),
				data:   ref("Post"),
				errors: []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
			}.operation(),
			"delete": endpoint{
				summary: "Delete post",
				secured: true,
				params:  []gin.H{idParam},
				errors:  []int{http.StatusForbidden, http.StatusNotFound},
			}.operation(),
		},
	}

	user := object(gin.H{"id": gin.H{"type": "integer"}, "name": str, "email": str}, "id", "name", "email")
	return gin.H{
		"openapi": "3.0.0",
		"info": gin.H{
			"version":     "1.0.0",
			"title":       "Blog API",
			"description": "Simple Blog API with Go",
		},
		"servers": []gin.H{{"url": "/"}},
		"paths":   paths,
		"components": gin.H{
			"securitySchemes": gin.H{
				"bearerAuth": gin.H{"type": "http", "scheme": "bearer", "bearerFormat": "JWT"},
				"cookieAuth": gin.H{"type": "apiKey", "in": "cookie", "name": "token"},
			},
			"schemas": gin.H{
				"User": user,
				"Post": object(gin.H{
					"id":         gin.H{"type": "integer"},
					"title":      str,
					"slug":       str,
					"content":    str,
					"author":     ref("User"),
					"status":     status,
					"tags":       tags,
					"created_at": gin.H{"type": "string", "format": "date-time"},
					"updated_at": gin.H{"type": "string", "format": "date-time"},
				}, "id", "title", "slug", "content", "author", "status", "tags", "created_at", "updated_at"),
				"Pagination": object(gin.H{
					"total": gin.H{"type": "integer"},
					"page":  gin.H{"type": "integer"},
					"limit": gin.H{"type": "integer"},
					"pages": gin.H{"type": "integer"},
				}, "total", "page", "limit", "pages"),
				"Error": object(gin.H{
					"success": gin.H{"type": "boolean", "enum": []bool{false}},
					"error": object(gin.H{
						"message": str,
						"details": gin.H{"type": "array", "items": object(gin.H{"path": str, "message": str}, "path", "message")},
					}, "message"),
				}, "success", "error"),
			},
		},
	}
}

func successSchema(data gin.H) gin.H {
	props := gin.H{
		"success": gin.H{"type": "boolean", "enum": []bool{true}},
		"message": gin.H{"type": "string"},
	}
	if data != nil {
		props["data"] = data
	}
	return object(props, "success")
}

func object(props gin.H, required ...string) gin.H {
	o := gin.H{"type": "object", "properties": props}
	if len(required) > 0 {
		o["required"] = required
	}
	return o
}

func jsonContent(schema gin.H) gin.H {
	return gin.H{"application/json": gin.H{"schema": schema}}
}

func pathParam(name string, schema gin.H) gin.H {
	return gin.H{"name": name, "in": "path", "required": true, "schema": schema}
}

func queryParam(name string, schema gin.H) gin.H {
	return gin.H{"name": name, "in": "query", "required": false, "schema": schema}
}

func statusKey(code int) string {
	return strconv.Itoa(code)
}
