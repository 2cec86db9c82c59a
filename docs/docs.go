// Package docs registra o documento OpenAPI da API do EstoqueMaster no swag.
// Gerado a partir das anotações dos handlers (swag init -g cmd/main.go).
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
        "/materials": {
            "get": {
                "description": "Lista materiais com status calculado. Arquivados só aparecem com includeArchived=true ou status=archived.",
                "produces": ["application/json"],
                "tags": ["materials"],
                "summary": "Lista materiais",
                "parameters": [
                    {"type": "string", "description": "Trecho do nome ou SKU", "name": "search", "in": "query"},
                    {"type": "string", "description": "SKU exato", "name": "sku", "in": "query"},
                    {"type": "string", "description": "Nome da categoria", "name": "category", "in": "query"},
                    {"type": "string", "description": "out, critical, resupply, ok, attention ou archived", "name": "status", "in": "query"},
                    {"type": "boolean", "description": "Inclui materiais arquivados", "name": "includeArchived", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.MaterialView"}}},
                    "400": {"description": "Filtro inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Cria um material; a categoria informada por nome é criada se ainda não existir.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["materials"],
                "summary": "Cadastra um material",
                "parameters": [
                    {"description": "Dados do material", "name": "material", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.MaterialInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.MaterialView"}},
                    "400": {"description": "Payload inválido ou SKU duplicado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "401": {"description": "Token ausente ou inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/materials/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["materials"],
                "summary": "Obtém um material por ID",
                "parameters": [{"type": "string", "description": "ID do material", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.MaterialView"}},
                    "404": {"description": "Material não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Altera os campos editáveis. A quantidade só muda por movimentações.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["materials"],
                "summary": "Atualiza um material",
                "parameters": [
                    {"type": "string", "description": "ID do material", "name": "id", "in": "path", "required": true},
                    {"description": "Campos editáveis", "name": "material", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.MaterialUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.MaterialView"}},
                    "400": {"description": "Payload inválido ou SKU duplicado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Material não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Exclusão lógica: o material some das listagens, mas o histórico é mantido.",
                "produces": ["application/json"],
                "tags": ["materials"],
                "summary": "Arquiva um material",
                "parameters": [{"type": "string", "description": "ID do material", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.MaterialView"}},
                    "404": {"description": "Material não encontrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Lista as categorias",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Category"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["categories"],
                "summary": "Cria uma categoria",
                "parameters": [
                    {"description": "Nome da categoria", "name": "category", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.CategoryInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Category"}},
                    "400": {"description": "Nome inválido ou duplicado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/categories/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Materiais da categoria passam a \"Sem Categoria\". Exige papel admin.",
                "tags": ["categories"],
                "summary": "Remove uma categoria",
                "parameters": [{"type": "string", "description": "ID da categoria", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Papel sem permissão", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Categoria não encontrada", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/movements": {
            "get": {
                "description": "Ordenadas por data e ID, da mais recente para a mais antiga.",
                "produces": ["application/json"],
                "tags": ["movements"],
                "summary": "Lista movimentações",
                "parameters": [{"type": "string", "description": "Data exata (AAAA-MM-DD)", "name": "date", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Movement"}}},
                    "400": {"description": "Data inválida", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Grava a movimentação no livro e ajusta o saldo do material numa única unidade atômica.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["movements"],
                "summary": "Registra uma movimentação de estoque",
                "parameters": [
                    {"description": "Movimentação (type: entrada ou saida; date: AAAA-MM-DD, padrão hoje)", "name": "movement", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.MovementRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Movement"}},
                    "400": {"description": "Quantidade, tipo ou data inválidos", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Material inexistente ou arquivado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Estoque insuficiente para a saída", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Falha de armazenamento; nada foi aplicado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/reports/summary": {
            "get": {
                "description": "Totais, contagens de estoque baixo, zerado e alto, distribuição por categoria e os mais movimentados.",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Indicadores do estoque",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Summary"}}
                }
            }
        },
        "/reports/top-moved": {
            "get": {
                "description": "Soma entradas e saídas por material, sem compensar a direção.",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Materiais mais movimentados",
                "parameters": [{"type": "integer", "description": "Quantidade de itens (padrão 3)", "name": "limit", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.MovedMaterial"}}},
                    "400": {"description": "limit inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/reports/export.xlsx": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["reports"],
                "summary": "Exporta o estoque em planilha",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}}
                }
            }
        },
        "/users/register": {
            "post": {
                "description": "Cria um novo usuário com papel \"user\", hasheia a senha e salva.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Registra um novo operador",
                "parameters": [
                    {"description": "Credenciais de registro (email e senha)", "name": "registration", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UserRegistration"}}
                ],
                "responses": {
                    "201": {"description": "Usuário criado com sucesso", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Payload inválido (JSON malformado ou campos obrigatórios ausentes)", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Email já cadastrado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/users/login": {
            "post": {
                "description": "Recebe email/senha, verifica a validade e emite um JSON Web Token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Autentica um operador e retorna um JWT",
                "parameters": [
                    {"description": "Credenciais do usuário (email e senha)", "name": "login", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.UserLogin"}}
                ],
                "responses": {
                    "200": {"description": "Token JWT emitido", "schema": {"$ref": "#/definitions/domain.LoginResponse"}},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "401": {"description": "Credenciais inválidas", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "500": {"description": "Erro interno do servidor", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Category": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}}
        },
        "domain.CategoryInput": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string", "maxLength": 100, "minLength": 2}}
        },
        "domain.CategoryShare": {
            "type": "object",
            "properties": {"category": {"type": "string"}, "count": {"type": "integer"}, "ratio": {"type": "number"}}
        },
        "domain.ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "category": {"type": "string"}, "message": {"type": "string"}}
        },
        "domain.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "domain.MaterialInput": {
            "type": "object",
            "required": ["name", "sku"],
            "properties": {
                "name": {"type": "string", "maxLength": 200},
                "sku": {"type": "string", "maxLength": 100},
                "contractCode": {"type": "string", "maxLength": 100},
                "category": {"type": "string", "maxLength": 100},
                "quantity": {"type": "integer", "maximum": 2147483647, "minimum": 0},
                "minQuantity": {"type": "integer", "maximum": 2147483647, "minimum": 0},
                "resupplyQuantity": {"type": "integer", "maximum": 2147483647, "minimum": 0},
                "alertPercentage": {"type": "integer", "maximum": 100, "minimum": 0},
                "description": {"type": "string"},
                "image": {"type": "string"}
            }
        },
        "domain.MaterialUpdate": {
            "type": "object",
            "required": ["name", "sku"],
            "properties": {
                "name": {"type": "string", "maxLength": 200},
                "sku": {"type": "string", "maxLength": 100},
                "contractCode": {"type": "string", "maxLength": 100},
                "category": {"type": "string", "maxLength": 100},
                "minQuantity": {"type": "integer", "maximum": 2147483647, "minimum": 0},
                "resupplyQuantity": {"type": "integer", "maximum": 2147483647, "minimum": 0},
                "alertPercentage": {"type": "integer", "maximum": 100, "minimum": 0},
                "description": {"type": "string"},
                "image": {"type": "string"},
                "isArchived": {"type": "boolean"}
            }
        },
        "domain.MaterialView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "sku": {"type": "string"},
                "contractCode": {"type": "string"},
                "categoryId": {"type": "string"},
                "category": {"type": "string"},
                "quantity": {"type": "integer"},
                "minQuantity": {"type": "integer"},
                "resupplyQuantity": {"type": "integer"},
                "alertPercentage": {"type": "integer"},
                "description": {"type": "string"},
                "image": {"type": "string"},
                "isArchived": {"type": "boolean"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "status": {"type": "string", "enum": ["Archived", "Out of Stock", "Critical", "Needs Resupply", "In Stock"]},
                "resupplyAlertLevel": {"type": "string"}
            }
        },
        "domain.MovedMaterial": {
            "type": "object",
            "properties": {"materialId": {"type": "string"}, "materialName": {"type": "string"}, "total": {"type": "integer"}}
        },
        "domain.Movement": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "materialId": {"type": "string"},
                "materialName": {"type": "string"},
                "type": {"type": "string", "enum": ["entrada", "saida"]},
                "quantity": {"type": "integer"},
                "date": {"type": "string"},
                "reason": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "domain.MovementRequest": {
            "type": "object",
            "required": ["materialId"],
            "properties": {
                "materialId": {"type": "string"},
                "type": {"type": "string", "enum": ["entrada", "saida"]},
                "quantity": {"type": "integer"},
                "date": {"type": "string"},
                "reason": {"type": "string", "maxLength": 500}
            }
        },
        "domain.Summary": {
            "type": "object",
            "properties": {
                "activeMaterials": {"type": "integer"},
                "totalUnits": {"type": "integer"},
                "lowStockCount": {"type": "integer"},
                "outOfStockCount": {"type": "integer"},
                "highStockCount": {"type": "integer"},
                "categories": {"type": "array", "items": {"$ref": "#/definitions/domain.CategoryShare"}},
                "topMoved": {"type": "array", "items": {"$ref": "#/definitions/domain.MovedMaterial"}}
            }
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.UserLogin": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "domain.UserRegistration": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string", "minLength": 8}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "EstoqueMaster API",
	Description:      "Controle de estoque de materiais de construção: cadastro, movimentações e relatórios.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
