// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "TokenAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/api/auth/token/login/": {
            "post": {
                "tags": ["认证"],
                "summary": "登录",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.LoginInput"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/auth/token/logout/": {
            "post": {
                "security": [{"TokenAuth": []}],
                "tags": ["认证"],
                "summary": "注销",
                "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/users/": {
            "get": {
                "tags": ["用户"],
                "summary": "用户列表",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["用户"],
                "summary": "注册",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.RegisterInput"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/users/me/": {
            "get": {"security": [{"TokenAuth": []}], "tags": ["用户"], "summary": "当前用户", "responses": {"200": {"description": "OK"}}}
        },
        "/api/users/me/avatar/": {
            "put": {"security": [{"TokenAuth": []}], "tags": ["用户"], "summary": "上传头像", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["用户"], "summary": "删除头像", "responses": {"204": {"description": "No Content"}}}
        },
        "/api/users/set_password/": {
            "post": {"security": [{"TokenAuth": []}], "tags": ["用户"], "summary": "修改密码", "responses": {"204": {"description": "No Content"}}}
        },
        "/api/users/subscriptions/": {
            "get": {
                "security": [{"TokenAuth": []}],
                "tags": ["关系链"],
                "summary": "我的关注",
                "parameters": [{"type": "integer", "name": "recipes_limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/users/{id}/": {
            "get": {"tags": ["用户"], "summary": "用户资料", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/users/{id}/subscribe/": {
            "post": {"security": [{"TokenAuth": []}], "tags": ["关系链"], "summary": "关注作者", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["关系链"], "summary": "取消关注", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}}}
        },
        "/api/recipes/": {
            "get": {
                "tags": ["菜谱"],
                "summary": "菜谱列表",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "author", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "name": "tags", "in": "query"},
                    {"type": "integer", "name": "is_favorited", "in": "query"},
                    {"type": "integer", "name": "is_in_shopping_cart", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"TokenAuth": []}],
                "tags": ["菜谱"],
                "summary": "创建菜谱",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.RecipeInput"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/api/recipes/download_shopping_cart/": {
            "get": {"security": [{"TokenAuth": []}], "produces": ["text/plain"], "tags": ["菜谱"], "summary": "下载购物清单", "responses": {"200": {"description": "OK"}}}
        },
        "/api/recipes/{id}/": {
            "get": {"tags": ["菜谱"], "summary": "菜谱详情", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"TokenAuth": []}], "tags": ["菜谱"], "summary": "修改菜谱", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.RecipeInput"}}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["菜谱"], "summary": "删除菜谱", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        },
        "/api/recipes/{id}/get-link/": {
            "get": {"tags": ["菜谱"], "summary": "获取短链", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/recipes/{id}/favorite/": {
            "post": {"security": [{"TokenAuth": []}], "tags": ["菜谱"], "summary": "加入收藏", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["菜谱"], "summary": "取消收藏", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}}}
        },
        "/api/recipes/{id}/shopping_cart/": {
            "post": {"security": [{"TokenAuth": []}], "tags": ["菜谱"], "summary": "加入购物车", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}},
            "delete": {"security": [{"TokenAuth": []}], "tags": ["菜谱"], "summary": "移出购物车", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}}}
        },
        "/api/tags/": {"get": {"tags": ["目录"], "summary": "标签列表", "responses": {"200": {"description": "OK"}}}},
        "/api/tags/{id}/": {"get": {"tags": ["目录"], "summary": "标签详情", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/ingredients/": {"get": {"tags": ["目录"], "summary": "食材列表", "parameters": [{"type": "string", "name": "name", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/api/ingredients/{id}/": {"get": {"tags": ["目录"], "summary": "食材详情", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/s/{id}/": {"get": {"tags": ["菜谱"], "summary": "短链跳转", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"302": {"description": "Found"}, "404": {"description": "Not Found"}}}}
    },
    "definitions": {
        "service.LoginInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "service.RegisterInput": {
            "type": "object",
            "required": ["email", "username", "first_name", "last_name", "password"],
            "properties": {
                "email": {"type": "string", "maxLength": 254},
                "username": {"type": "string", "maxLength": 150},
                "first_name": {"type": "string", "maxLength": 150},
                "last_name": {"type": "string", "maxLength": 150},
                "password": {"type": "string", "maxLength": 150}
            }
        },
        "service.IngredientAmount": {
            "type": "object",
            "required": ["id"],
            "properties": {"id": {"type": "integer"}, "amount": {"type": "integer", "minimum": 1, "maximum": 32000}}
        },
        "service.RecipeInput": {
            "type": "object",
            "required": ["name", "text"],
            "properties": {
                "tags": {"type": "array", "items": {"type": "integer"}},
                "ingredients": {"type": "array", "items": {"$ref": "#/definitions/service.IngredientAmount"}},
                "name": {"type": "string", "maxLength": 256},
                "text": {"type": "string"},
                "cooking_time": {"type": "integer", "minimum": 1, "maximum": 32000},
                "image": {"type": "string", "description": "base64 data URL"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Foodgram API",
	Description:      "Recipes, subscriptions, favorites and shopping lists.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
