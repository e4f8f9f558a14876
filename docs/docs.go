// Package docs registers the OpenAPI documents served under /swagger.
package docs

import "github.com/swaggo/swag"

const orderTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/cart": {
            "get": {"tags": ["cart"], "summary": "Cart lines with totals", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/CartView"}}}}
        },
        "/cart/items": {
            "post": {"tags": ["cart"], "summary": "Add a product to the cart",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AddItemRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["cart"], "summary": "Edit several line quantities",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateQuantitiesRequest"}}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/cart/items/{id}": {
            "put": {"tags": ["cart"], "summary": "Set one line quantity; zero removes it",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/SetQuantityRequest"}}],
                "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["cart"], "summary": "Remove a line",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}}
        },
        "/buy-now": {
            "delete": {"tags": ["checkout"], "summary": "Drop the buy-now product and check out the cart instead", "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "No Content"}}}
        },
        "/buy-now/{product_id}": {
            "post": {"tags": ["checkout"], "summary": "Check out a single product next", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "product_id", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/checkout": {
            "post": {"tags": ["checkout"], "summary": "Place an order from the buy-now product or the cart", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CheckoutRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/CheckoutResult"}}, "400": {"description": "Bad Request"}, "409": {"description": "Nothing to check out"}}}
        },
        "/orders": {
            "get": {"tags": ["orders"], "summary": "Orders of the caller", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "limit", "type": "integer"}, {"in": "query", "name": "offset", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/orders/{id}": {
            "get": {"tags": ["orders"], "summary": "Order with items", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/orders/{id}/{action}": {
            "post": {"tags": ["orders"], "summary": "cancel, return or exchange an order", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "path", "name": "action", "required": true, "type": "string", "enum": ["cancel", "return", "exchange"]}, {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/TransitionRequest"}}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}
        },
        "/admin/orders/{id}/{action}": {
            "post": {"tags": ["admin"], "summary": "Run a staff action on one order", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "path", "name": "action", "required": true, "type": "string", "enum": ["mark_shipped", "mark_completed", "approve_return", "reject_return", "approve_exchange"]}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}
        },
        "/admin/orders/actions": {
            "post": {"tags": ["admin"], "summary": "Run a staff action on many orders", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/BulkActionRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/BulkActionResponse"}}}}
        },
        "/products/{id}/comments": {
            "get": {"tags": ["reviews"], "summary": "Comments and rating summary",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["reviews"], "summary": "Comment on a product", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/AddCommentRequest"}}],
                "responses": {"201": {"description": "Created"}, "204": {"description": "Empty comment ignored"}}}
        },
        "/comments/{id}": {
            "delete": {"tags": ["reviews"], "summary": "Delete own comment", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}}
        }
    },
    "definitions": {
        "AddItemRequest": {"type": "object", "properties": {"product_id": {"type": "string"}, "quantity": {"type": "integer", "example": 1}, "size": {"type": "string", "example": "M"}}},
        "SetQuantityRequest": {"type": "object", "properties": {"quantity": {"type": "integer", "example": 2}}},
        "UpdateQuantitiesRequest": {"type": "object", "properties": {"quantities": {"type": "object", "additionalProperties": {"type": "integer"}}}},
        "CartView": {"type": "object", "properties": {"lines": {"type": "array", "items": {"type": "object"}}, "total": {"type": "string", "example": "54.98"}, "count": {"type": "integer"}}},
        "CheckoutRequest": {"type": "object", "required": ["name", "email", "address"], "properties": {
            "name": {"type": "string"}, "email": {"type": "string"}, "address": {"type": "string"},
            "payment_method": {"type": "string", "enum": ["cod", "card", "crypto", "upi"]},
            "crypto_type": {"type": "string"}, "crypto_wallet": {"type": "string"}, "crypto_txn": {"type": "string"},
            "upi_app": {"type": "string", "example": "gpay"}}},
        "CheckoutResult": {"type": "object", "properties": {"order_id": {"type": "string"}, "paid": {"type": "boolean"}}},
        "TransitionRequest": {"type": "object", "properties": {"reason": {"type": "string"}, "new_product": {"type": "string"}}},
        "BulkActionRequest": {"type": "object", "required": ["action", "ids"], "properties": {"action": {"type": "string"}, "ids": {"type": "array", "items": {"type": "string"}}}},
        "BulkActionResponse": {"type": "object", "properties": {"transitioned": {"type": "integer"}}},
        "AddCommentRequest": {"type": "object", "properties": {"text": {"type": "string"}, "rating": {"type": "integer", "minimum": 1, "maximum": 5}}}
    }
}`

const productTemplate = `{
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
        "/products": {
            "get": {"tags": ["products"], "summary": "List products",
                "parameters": [{"in": "query", "name": "limit", "type": "integer"}, {"in": "query", "name": "offset", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["products"], "summary": "Create a product",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateProductRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/products/search": {
            "get": {"tags": ["products"], "summary": "Search by name or description",
                "parameters": [{"in": "query", "name": "q", "required": true, "type": "string"}, {"in": "query", "name": "limit", "type": "integer"}, {"in": "query", "name": "offset", "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/products/{id}": {
            "get": {"tags": ["products"], "summary": "Get a product",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["products"], "summary": "Partially update a product",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProductRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["products"], "summary": "Delete a product",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/offers": {
            "get": {"tags": ["offers"], "summary": "Offer banners currently on display", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["offers"], "summary": "Create an offer banner",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOfferRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/offers/{id}": {
            "delete": {"tags": ["offers"], "summary": "Delete an offer banner",
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        }
    },
    "definitions": {
        "CreateOfferRequest": {"type": "object", "required": ["title", "position", "start_date", "end_date"], "properties": {
            "title": {"type": "string", "maxLength": 200}, "subtitle": {"type": "string", "maxLength": 255},
            "position": {"type": "string", "enum": ["top", "card", "popup"]}, "is_active": {"type": "boolean"},
            "start_date": {"type": "string", "format": "date-time"}, "end_date": {"type": "string", "format": "date-time"}}},
        "CreateProductRequest": {"type": "object", "required": ["name", "price"], "properties": {
            "name": {"type": "string"}, "description": {"type": "string"}, "category": {"type": "string"},
            "price": {"type": "string", "example": "19.99"}, "offer_price": {"type": "string"},
            "is_on_offer": {"type": "boolean"}, "available": {"type": "boolean"}}},
        "UpdateProductRequest": {"type": "object", "properties": {
            "name": {"type": "string"}, "description": {"type": "string"}, "category": {"type": "string"},
            "price": {"type": "string"}, "offer_price": {"type": "string"},
            "is_on_offer": {"type": "boolean"}, "available": {"type": "boolean"}}}
    }
}`

const (
	OrderInstance   = "order"
	ProductInstance = "product"
)

var OrderSpec = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tienda order-service API",
	Description:      "Cart, checkout, order lifecycle and reviews.",
	InfoInstanceName: OrderInstance,
	SwaggerTemplate:  orderTemplate,
}

var ProductSpec = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tienda product-service API",
	Description:      "Product catalog.",
	InfoInstanceName: ProductInstance,
	SwaggerTemplate:  productTemplate,
}

func init() {
	swag.Register(OrderSpec.InstanceName(), OrderSpec)
	swag.Register(ProductSpec.InstanceName(), ProductSpec)
}
