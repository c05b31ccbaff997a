package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academic Ledger API",
        "description": "Academic and billing ledger service",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Catalog", "description": "Course catalog and prerequisites"},
        {"name": "Enrollments", "description": "Enrollment, grading and GPA"},
        {"name": "Billing", "description": "Invoice generation and reads"},
        {"name": "Payments", "description": "Payments and financial aid"},
        {"name": "Finance", "description": "Balance summaries and reports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/subjects": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List subjects",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create subject with teaching assignment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate subject id"}
                }
            }
        },
        "/api/v1/subjects/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get subject with teaching assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Update subject and teaching assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSubjectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/subjects/{id}/prerequisites": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List prerequisite subject IDs",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Replace the prerequisite set",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetPrerequisitesRequest"}}
                ],
                "responses": {
                    "204": {"description": "Replaced"}
                }
            }
        },
        "/api/v1/enrollments": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll a student in a subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already enrolled"}
                }
            }
        },
        "/api/v1/enrollments/{id}/grade": {
            "put": {
                "tags": ["Enrollments"],
                "summary": "Record the final grade",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordGradeRequest"}}
                ],
                "responses": {
                    "204": {"description": "Recorded"}
                }
            }
        },
        "/api/v1/enrollments/{id}/scores": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List assignment scores",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Enrollments"],
                "summary": "Record an assignment score",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ScoreRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/students/{id}/gpa": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Recompute and persist the student's GPA",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/invoices/generate": {
            "post": {
                "tags": ["Billing"],
                "summary": "Generate semester invoices for all enrolled students",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateInvoicesRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/payments": {
            "post": {
                "tags": ["Payments"],
                "summary": "Record a payment against an invoice",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddPaymentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/financial-aid": {
            "post": {
                "tags": ["Payments"],
                "summary": "Grant financial aid against an invoice",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddAidRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/finance/summaries": {
            "get": {
                "tags": ["Finance"],
                "summary": "Per-student due/paid/balance table",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/finance/report": {
            "get": {
                "tags": ["Finance"],
                "summary": "Fleet-wide billing totals",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateSubjectRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "credits": {"type": "integer"},
                "teacher_id": {"type": "string"},
                "room": {"type": "string"},
                "day": {"type": "string"},
                "time": {"type": "string"}
            },
            "required": ["id", "name", "credits", "teacher_id"]
        },
        "UpdateSubjectRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "credits": {"type": "integer"},
                "teacher_id": {"type": "string"},
                "room": {"type": "string"},
                "day": {"type": "string"},
                "time": {"type": "string"}
            },
            "required": ["name", "credits", "teacher_id"]
        },
        "SetPrerequisitesRequest": {
            "type": "object",
            "properties": {
                "prerequisite_ids": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            }
        },
        "EnrollRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "subject_id": {"type": "string"}
            },
            "required": ["student_id", "subject_id"]
        },
        "RecordGradeRequest": {
            "type": "object",
            "properties": {
                "grade": {"type": "string"}
            },
            "required": ["grade"]
        },
        "ScoreRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "score": {"type": "number"},
                "max_score": {"type": "number"}
            },
            "required": ["name", "max_score"]
        },
        "GenerateInvoicesRequest": {
            "type": "object",
            "properties": {
                "semester_id": {"type": "string"},
                "base_amount": {"type": "number"},
                "issue_date": {"type": "string", "format": "date"},
                "due_date": {"type": "string", "format": "date"}
            },
            "required": ["semester_id", "base_amount"]
        },
        "AddPaymentRequest": {
            "type": "object",
            "properties": {
                "invoice_id": {"type": "integer"},
                "amount": {"type": "number"},
                "method": {"type": "string"},
                "reference_code": {"type": "string"}
            },
            "required": ["invoice_id", "amount", "method"]
        },
        "AddAidRequest": {
            "type": "object",
            "properties": {
                "invoice_id": {"type": "integer"},
                "semester_id": {"type": "string"},
                "aid_type": {"type": "string"},
                "description": {"type": "string"},
                "amount": {"type": "number"}
            },
            "required": ["invoice_id", "semester_id", "aid_type", "amount"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
