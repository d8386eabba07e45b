package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>AI Model Inventory API - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document for the catalog and purchase routes.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "AI Model Inventory API", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearerAuth": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } }
  },
  "paths": {
    "/api/models": {
      "get": {
        "summary": "Search model listings",
        "parameters": [
          { "name": "q", "in": "query", "schema": { "type": "string" } },
          { "name": "frameworks", "in": "query", "schema": { "type": "string" }, "description": "comma-separated set" },
          { "name": "page", "in": "query", "schema": { "type": "integer", "default": 1 } },
          { "name": "limit", "in": "query", "schema": { "type": "integer", "default": 12, "maximum": 48 } }
        ],
        "responses": { "200": { "description": "one page of listings with totals" } }
      },
      "post": {
        "summary": "Create a model listing",
        "security": [{ "bearerAuth": [] }],
        "requestBody": { "content": { "application/json": { "schema": { "type": "object", "required": ["name","framework","useCase","dataset","description","image"], "properties": { "name": {"type":"string"}, "framework": {"type":"string"}, "useCase": {"type":"string"}, "dataset": {"type":"string"}, "description": {"type":"string"}, "image": {"type":"string"} } } } } },
        "responses": { "201": { "description": "created listing" }, "400": { "description": "missing field" }, "401": { "description": "unauthenticated" } }
      }
    },
    "/api/models/latest": {
      "get": { "summary": "Six newest listings", "responses": { "200": { "description": "array of listings" } } }
    },
    "/api/models/mine": {
      "get": { "summary": "Listings created by the caller", "security": [{ "bearerAuth": [] }], "responses": { "200": { "description": "array of listings" }, "401": { "description": "unauthenticated" } } }
    },
    "/api/models/{id}": {
      "get": { "summary": "Fetch one listing", "responses": { "200": { "description": "listing" }, "400": { "description": "invalid id" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a listing (owner only)", "security": [{ "bearerAuth": [] }], "responses": { "200": { "description": "updated listing" }, "403": { "description": "not the owner" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a listing (owner only)", "security": [{ "bearerAuth": [] }], "responses": { "200": { "description": "acknowledgement" }, "403": { "description": "not the owner" }, "404": { "description": "not found" } } }
    },
    "/api/models/{id}/purchase": {
      "post": { "summary": "Purchase a listing", "security": [{ "bearerAuth": [] }], "responses": { "200": { "description": "listing with bumped counter" }, "400": { "description": "invalid id" }, "404": { "description": "not found" } } }
    },
    "/api/purchases/mine": {
      "get": { "summary": "Caller's purchases joined with their listings", "security": [{ "bearerAuth": [] }], "responses": { "200": { "description": "array of receipts" } } }
    },
    "/api/purchases/by-model/{id}": {
      "get": { "summary": "Raw ledger entries for one listing", "security": [{ "bearerAuth": [] }], "responses": { "200": { "description": "array of purchases" }, "400": { "description": "invalid id" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
