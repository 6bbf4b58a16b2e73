// Package docs holds the OpenAPI description served under /swagger/.
// It mirrors the swag annotations on cmd/server and the handlers; after
// changing them, regenerate it with `go generate ./cmd/server`.
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
	"paths": {
		"/signup": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Register a new user",
				"parameters": [
					{
						"description": "Registration data",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.SignupRequest"
						}
					}
				],
				"responses": {
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.SignupResponse"
						}
					}
				}
			}
		},
		"/signin": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Login user",
				"parameters": [
					{
						"description": "Login credentials",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.SigninRequest"
						}
					}
				],
				"responses": {
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.TokenResponse"
						}
					}
				}
			}
		},
		"/signout": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Revoke the current token",
				"responses": {
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.MessageResponse"
						}
					}
				}
			}
		},
		"/users": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "List users",
				"responses": {
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/model.User"
							}
						}
					}
				}
			}
		},
		"/users/me": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Get the authenticated user",
				"responses": {
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.User"
						}
					}
				}
			},
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Update name and about",
				"parameters": [
					{
						"description": "Profile fields",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.UpdateProfileRequest"
						}
					}
				],
				"responses": {
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.User"
						}
					}
				}
			}
		},
		"/users/me/avatar": {
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"users"
				],
				"summary": "Update avatar",
				"parameters": [
					{
						"description": "Avatar link",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.UpdateAvatarRequest"
						}
					}
				],
				"responses": {
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.User"
						}
					}
				}
			}
		},
		"/cards": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"cards"
				],
				"summary": "List cards, newest first",
				"responses": {
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/model.Card"
							}
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"cards"
				],
				"summary": "Create a card owned by the caller",
				"parameters": [
					{
						"description": "Card data",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.CreateCardRequest"
						}
					}
				],
				"responses": {
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Card"
						}
					}
				}
			}
		},
		"/cards/{id}": {
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"cards"
				],
				"summary": "Delete one of the caller's cards",
				"parameters": [
					{
						"type": "string",
						"description": "Card ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Card"
						}
					}
				}
			}
		},
		"/cards/{id}/likes": {
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"cards"
				],
				"summary": "Like a card",
				"parameters": [
					{
						"type": "string",
						"description": "Card ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Card"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"cards"
				],
				"summary": "Remove the caller's like",
				"parameters": [
					{
						"type": "string",
						"description": "Card ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/model.Card"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"errors.ErrorResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				}
			}
		},
		"handler.CreateCardRequest": {
			"type": "object",
			"required": [
				"link",
				"name"
			],
			"properties": {
				"link": {
					"type": "string"
				},
				"name": {
					"type": "string",
					"maxLength": 30,
					"minLength": 2
				}
			}
		},
		"handler.MessageResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				}
			}
		},
		"handler.SigninRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"handler.SignupRequest": {
			"type": "object",
			"properties": {
				"about": {
					"type": "string"
				},
				"avatar": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"handler.SignupResponse": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"id": {
					"type": "string"
				}
			}
		},
		"handler.TokenResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				}
			}
		},
		"handler.UpdateAvatarRequest": {
			"type": "object",
			"properties": {
				"avatar": {
					"type": "string"
				}
			}
		},
		"handler.UpdateProfileRequest": {
			"type": "object",
			"properties": {
				"about": {
					"type": "string"
				},
				"name": {
					"type": "string"
				}
			}
		},
		"model.Card": {
			"type": "object",
			"required": [
				"link",
				"name",
				"owner"
			],
			"properties": {
				"createdAt": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"likes": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"link": {
					"type": "string"
				},
				"name": {
					"type": "string",
					"maxLength": 30,
					"minLength": 2
				},
				"owner": {
					"type": "string"
				}
			}
		},
		"model.User": {
			"type": "object",
			"required": [
				"email"
			],
			"properties": {
				"about": {
					"type": "string",
					"maxLength": 200,
					"minLength": 2
				},
				"avatar": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string",
					"maxLength": 30,
					"minLength": 2
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Type \"Bearer\" followed by a space and JWT token.",
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Mesto API",
	Description:      "Photo sharing backend: users, profiles, cards and likes with JWT authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
