// Package docs registers the OpenAPI description served under /swagger.
// It mirrors the handler annotations; keep both in step when routes change.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/signup": {
            "post": {
                "tags": ["Auth"],
                "summary": "Create an account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "signupBody", "required": true, "schema": {"$ref": "#/definitions/auth.SignupRequest"}}],
                "responses": {
                    "201": {"description": "User created successfully!", "schema": {"$ref": "#/definitions/auth.MessageResponse"}},
                    "400": {"description": "Missing fields, or username/email already taken", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "loginBody", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.LoginResponse"}},
                    "400": {"description": "Invalid credentials!", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/user/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Look up a username",
                "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UsernameResponse"}},
                    "401": {"description": "Access token is missing!", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "403": {"description": "Invalid or expired token!", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "404": {"description": "User not found!", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/watchlist": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["watchlist"],
                "summary": "List the caller's watchlist",
                "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "userId", "type": "integer"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/store.WatchlistEntry"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["watchlist"],
                "summary": "Add a movie to the watchlist",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/watchlist.AddRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/watchlist.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["watchlist"],
                "summary": "Remove a movie from the watchlist",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/watchlist.RemoveRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/watchlist.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/movies/popular": {
            "get": {
                "tags": ["movies"],
                "summary": "Popular movies from a random page",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.Movie"}}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/movies/top-rated": {
            "get": {
                "tags": ["movies"],
                "summary": "Top-rated movies from a random page",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.Movie"}}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/movies/trending/{window}": {
            "get": {
                "tags": ["movies"],
                "summary": "Trending movies from a random page",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "window", "type": "string", "required": true, "description": "day or week"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.Movie"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/movies/genres": {
            "get": {
                "tags": ["movies"],
                "summary": "All movie genres",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.Genre"}}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/movies/genre/{id}": {
            "get": {
                "tags": ["movies"],
                "summary": "One page of a genre",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true, "description": "Genre ID"},
                    {"in": "query", "name": "page", "type": "integer", "description": "Page, default 1"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.GenrePage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/movies/genre/{id}/random": {
            "get": {
                "tags": ["movies"],
                "summary": "A random page of a genre",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true, "description": "Genre ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.Movie"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/movies/search": {
            "get": {
                "tags": ["movies"],
                "summary": "Search movies by title",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "query", "type": "string", "required": true, "description": "Search text"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.Movie"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/movies/{id}": {
            "get": {
                "tags": ["movies"],
                "summary": "Movie details",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "integer", "required": true, "description": "Movie ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/catalog.MovieDetails"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/chat": {
            "post": {
                "tags": ["Chat"],
                "summary": "Ask the movie assistant",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/chat.MessageRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/chat.Reply"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/apperror.ErrorResponse"}}
                }
            }
        },
        "/chat/suggestions": {
            "get": {
                "tags": ["Chat"],
                "summary": "Suggested prompts",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}}
            }
        }
    },
    "definitions": {
        "apperror.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string", "example": "Invalid credentials!"}, "msg": {"type": "string", "example": "Invalid credentials!"}}
        },
        "auth.SignupRequest": {
            "type": "object",
            "required": ["username", "email", "password"],
            "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "auth.LoginRequest": {
            "type": "object",
            "required": ["usernameOrEmail", "password"],
            "properties": {"usernameOrEmail": {"type": "string"}, "password": {"type": "string"}}
        },
        "auth.MessageResponse": {
            "type": "object",
            "properties": {"msg": {"type": "string"}}
        },
        "auth.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user_id": {"type": "integer"}}
        },
        "users.UsernameResponse": {
            "type": "object",
            "properties": {"username": {"type": "string"}}
        },
        "store.WatchlistEntry": {
            "type": "object",
            "properties": {
                "watchlist_id": {"type": "integer"},
                "user_id": {"type": "integer"},
                "movie_id": {"type": "integer"},
                "title": {"type": "string"},
                "poster_path": {"type": "string"}
            }
        },
        "watchlist.AddRequest": {
            "type": "object",
            "required": ["movieId", "title"],
            "properties": {"userId": {"type": "integer"}, "movieId": {"type": "integer"}, "title": {"type": "string"}, "posterPath": {"type": "string"}}
        },
        "watchlist.RemoveRequest": {
            "type": "object",
            "required": ["movieId"],
            "properties": {"userId": {"type": "integer"}, "movieId": {"type": "integer"}}
        },
        "watchlist.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "catalog.Movie": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "overview": {"type": "string"},
                "poster_path": {"type": "string"},
                "backdrop_path": {"type": "string"},
                "release_date": {"type": "string"},
                "vote_average": {"type": "number"},
                "genre_ids": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "catalog.Genre": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "name": {"type": "string"}}
        },
        "catalog.GenrePage": {
            "type": "object",
            "properties": {
                "movies": {"type": "array", "items": {"$ref": "#/definitions/catalog.Movie"}},
                "totalPages": {"type": "integer"}
            }
        },
        "catalog.MovieDetails": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "overview": {"type": "string"},
                "poster_path": {"type": "string"},
                "backdrop_path": {"type": "string"},
                "release_date": {"type": "string"},
                "vote_average": {"type": "number"},
                "genre_ids": {"type": "array", "items": {"type": "integer"}},
                "genres": {"type": "array", "items": {"$ref": "#/definitions/catalog.Genre"}},
                "runtime": {"type": "integer"},
                "tagline": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "chat.MessageRequest": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "chat.Reply": {
            "type": "object",
            "properties": {"text": {"type": "string"}, "movieId": {"type": "integer"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type 'Bearer YOUR_JWT_TOKEN' to authorize",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "MovAI API",
	Description:      "Accounts, watchlists, movie browsing and the chat assistant for the MovAI app.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
