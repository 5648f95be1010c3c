// Package docs holds the OpenAPI document served by swaggerkit
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/campaigns/create": {
            "post": {
                "tags": ["Campaigns"],
                "summary": "Create a campaign and derive its campaign code",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CreateCampaignInput"}}}
                },
                "responses": {
                    "201": {"description": "created", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Campaign"}}}},
                    "404": {"description": "audio not found"},
                    "422": {"description": "invalid audio link"}
                }
            }
        },
        "/campaigns/extend": {
            "post": {
                "tags": ["Campaigns"],
                "summary": "Extend a campaign window and replace its budget",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ExtendCampaignInput"}}}
                },
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Campaign"}}}},
                    "404": {"description": "campaign not found"},
                    "422": {"description": "date rule violated"}
                }
            }
        },
        "/campaigns/all": {
            "get": {
                "tags": ["Campaigns"],
                "summary": "List campaigns with their videos and snapshots",
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"type": "array", "items": {"$ref": "#/components/schemas/CampaignDetails"}}}}}
                }
            }
        },
        "/campaigns/get": {
            "get": {
                "tags": ["Campaigns"],
                "summary": "Campaign details by id or campaign code",
                "parameters": [
                    {"name": "id", "in": "query", "schema": {"type": "string", "format": "uuid"}},
                    {"name": "campaign_code", "in": "query", "schema": {"type": "string"}}
                ],
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CampaignDetails"}}}},
                    "404": {"description": "campaign not found"}
                }
            }
        },
        "/media/video/info": {
            "get": {
                "tags": ["Media"],
                "summary": "Look up a video through the video-data api",
                "parameters": [{"name": "link", "in": "query", "required": true, "schema": {"type": "string"}}],
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/VideoInfo"}}}},
                    "404": {"description": "video is deleted"},
                    "502": {"description": "upstream error"}
                }
            }
        },
        "/media/audio/info": {
            "get": {
                "tags": ["Media"],
                "summary": "Look up an audio track through the video-data api",
                "parameters": [{"name": "link", "in": "query", "required": true, "schema": {"type": "string"}}],
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/MusicInfo"}}}},
                    "404": {"description": "audio is deleted"},
                    "422": {"description": "invalid music link"}
                }
            }
        },
        "/meta/health": {
            "get": {
                "tags": ["Meta"],
                "summary": "Health check",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/meta/ready": {
            "get": {
                "tags": ["Meta"],
                "summary": "Readiness probe with dependency checks",
                "responses": {"200": {"description": "ok"}, "503": {"description": "a dependency failed"}}
            }
        },
        "/meta/version": {
            "get": {
                "tags": ["Meta"],
                "summary": "Build information",
                "responses": {"200": {"description": "ok"}}
            }
        }
    },
    "components": {
        "schemas": {
            "Stats": {
                "type": "object",
                "properties": {
                    "views": {"type": "integer", "format": "int64"},
                    "likes": {"type": "integer", "format": "int64"},
                    "shares": {"type": "integer", "format": "int64"},
                    "bookmarks": {"type": "integer", "format": "int64"},
                    "comments": {"type": "integer", "format": "int64"}
                }
            },
            "Budget": {
                "type": "object",
                "properties": {
                    "total": {"type": "number"},
                    "starting_fund": {"type": "number"},
                    "ending_fund": {"type": "number"}
                }
            },
            "Audience": {
                "type": "object",
                "properties": {
                    "age": {"type": "object", "properties": {"min": {"type": "integer"}, "max": {"type": "integer"}}},
                    "gender": {"type": "object", "properties": {"male": {"type": "number"}, "female": {"type": "number"}}},
                    "places": {"type": "array", "items": {"type": "object", "properties": {"place_id": {"type": "string"}, "title": {"type": "string"}}}}
                }
            },
            "CreateCampaignInput": {
                "type": "object",
                "required": ["name", "audios", "budget", "start_date", "end_date"],
                "properties": {
                    "name": {"type": "string"},
                    "objective": {"type": "string"},
                    "description": {"type": "string"},
                    "audios": {"type": "array", "minItems": 1, "items": {"type": "string"}},
                    "videos": {"type": "array", "items": {"type": "string"}},
                    "audience": {"$ref": "#/components/schemas/Audience"},
                    "budget": {"$ref": "#/components/schemas/Budget"},
                    "start_date": {"type": "string", "format": "date"},
                    "end_date": {"type": "string", "format": "date"}
                }
            },
            "ExtendCampaignInput": {
                "type": "object",
                "required": ["id", "start_date", "end_date", "budget"],
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "start_date": {"type": "string", "format": "date"},
                    "end_date": {"type": "string", "format": "date"},
                    "budget": {"type": "number", "description": "replaces budget.total"}
                }
            },
            "Campaign": {
                "type": "object",
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "name": {"type": "string"},
                    "objective": {"type": "string"},
                    "description": {"type": "string"},
                    "audios": {"type": "array", "items": {"type": "string"}},
                    "videos": {"type": "array", "items": {"type": "string"}},
                    "campaign_code": {"type": "string"},
                    "audience": {"$ref": "#/components/schemas/Audience"},
                    "budget": {"$ref": "#/components/schemas/Budget"},
                    "start_date": {"type": "string", "format": "date-time"},
                    "end_date": {"type": "string", "format": "date-time"}
                }
            },
            "CampaignVideo": {
                "type": "object",
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "campaign_id": {"type": "string", "format": "uuid"},
                    "url": {"type": "string"},
                    "creator_id": {"type": "string"},
                    "creator_social_name": {"type": "string"},
                    "description": {"type": "string"},
                    "stats": {"$ref": "#/components/schemas/Stats"},
                    "snapshots": {"type": "array", "items": {"$ref": "#/components/schemas/Snapshot"}}
                }
            },
            "Snapshot": {
                "type": "object",
                "properties": {
                    "stats_date": {"type": "string", "format": "date-time"},
                    "stats": {"$ref": "#/components/schemas/Stats"}
                }
            },
            "CampaignDetails": {
                "allOf": [
                    {"$ref": "#/components/schemas/Campaign"},
                    {"type": "object", "properties": {"campaign_videos": {"type": "array", "items": {"$ref": "#/components/schemas/CampaignVideo"}}}}
                ]
            },
            "VideoInfo": {
                "type": "object",
                "properties": {
                    "author": {"type": "string"},
                    "description": {"type": "string"},
                    "stats": {"$ref": "#/components/schemas/Stats"}
                }
            },
            "MusicInfo": {
                "type": "object",
                "properties": {
                    "id": {"type": "string"},
                    "title": {"type": "string"},
                    "author_name": {"type": "string"},
                    "duration": {"type": "integer"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "Campaign Tracker API",
	Description:      "Campaigns, tracked videos and media lookups",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
