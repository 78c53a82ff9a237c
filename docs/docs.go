// Package docs registers the Swagger description served under /swagger.
//
// The document is kept in step with the godoc annotations of the handlers
// package by hand. Schemas mirror the json tags of the response types.
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
        "/admin/auto-confirm": {
            "post": {
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.AutoConfirmSummary"
                        }
                    }
                },
                "summary": "Запустить авто-подтверждение немедленно",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/matches/{matchID}": {
            "put": {
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "summary": "Исправить счёт или статус матча",
                "tags": [
                    "admin"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Match ID",
                        "name": "matchID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "schema": {
                            "$ref": "#/definitions/services.AdminUpdateMatchInput"
                        },
                        "description": "Изменения",
                        "name": "body",
                        "in": "body",
                        "required": true
                    }
                ]
            }
        },
        "/admin/matches/{matchID}/reports/{reportID}": {
            "delete": {
                "responses": {
                    "204": {
                        "description": "Отчёт удалён"
                    }
                },
                "summary": "Удалить отчёт",
                "tags": [
                    "admin"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Match ID",
                        "name": "matchID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Report ID",
                        "name": "reportID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/admin/matches/{matchID}/reports/{reportID}/confirm": {
            "post": {
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "summary": "Подтвердить отчёт от имени администратора",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Match ID",
                        "name": "matchID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Report ID",
                        "name": "reportID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/admin/stages/{stageID}/advance": {
            "post": {
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.AdvanceResult"
                        }
                    }
                },
                "summary": "Проверить текущий раунд плей-офф и создать следующий",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Stage ID",
                        "name": "stageID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/admin/stages/{stageID}/recalculate": {
            "post": {
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                },
                "summary": "Пересчитать таблицу групповой стадии",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Stage ID",
                        "name": "stageID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/admin/stages/{stageID}/round-robin": {
            "post": {
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.RoundRobinResult"
                        }
                    },
                    "409": {
                        "description": "Стадия не групповая",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                },
                "summary": "Сгенерировать расписание групповой стадии",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Stage ID",
                        "name": "stageID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/admin/tournaments/{tournamentID}/playoff": {
            "post": {
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.PlayoffGenerationResult"
                        }
                    },
                    "409": {
                        "description": "Недостаточно участников",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                },
                "summary": "Сгенерировать первый раунд плей-офф",
                "tags": [
                    "admin"
                ],
                "description": "Пересоздаёт сетку: существующие матчи плей-офф удаляются.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Tournament ID",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "schema": {
                            "$ref": "#/definitions/services.GeneratePlayoffInput"
                        },
                        "description": "Настройки сетки",
                        "name": "body",
                        "in": "body",
                        "required": true
                    }
                ]
            }
        },
        "/admin/tournaments/{tournamentID}/stages": {
            "post": {
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "422": {
                        "description": "Ошибка валидации",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                },
                "summary": "Создать стадию турнира",
                "tags": [
                    "admin"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Tournament ID",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "schema": {
                            "$ref": "#/definitions/services.CreateStageInput"
                        },
                        "description": "Стадия",
                        "name": "body",
                        "in": "body",
                        "required": true
                    }
                ]
            }
        },
        "/matches/{matchID}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.MatchDetails"
                        }
                    },
                    "404": {
                        "description": "Матч не найден",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                },
                "summary": "Матч с отчётами",
                "tags": [
                    "matches"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Match ID",
                        "name": "matchID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/matches/{matchID}/attachments": {
            "post": {
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/storage.UploadResult"
                        }
                    },
                    "403": {
                        "description": "Пользователь не участник матча",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "415": {
                        "description": "Неподдерживаемый тип файла",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                },
                "summary": "Загрузить скриншот результата",
                "tags": [
                    "matches"
                ],
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Match ID",
                        "name": "matchID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "file",
                        "description": "PNG, JPEG или WebP до 5 МБ",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ]
            }
        },
        "/matches/{matchID}/reports": {
            "post": {
                "responses": {
                    "201": {
                        "description": "Отчёт создан",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "400": {
                        "description": "Некорректный JSON",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Пользователь не участник матча",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "Матч уже закрыт",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "422": {
                        "description": "Ошибка валидации",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                },
                "summary": "Отправить результат матча",
                "tags": [
                    "matches"
                ],
                "description": "Участник матча отправляет счёт. Предыдущий ожидающий отчёт становится неактуальным.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Match ID",
                        "name": "matchID",
                        "in": "path",
                        "required": true
                    },
                    {
                        "schema": {
                            "$ref": "#/definitions/services.SubmitReportInput"
                        },
                        "description": "Счёт матча",
                        "name": "body",
                        "in": "body",
                        "required": true
                    }
                ]
            }
        },
        "/me/matches": {
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
                    "players"
                ],
                "summary": "Матчи текущего пользователя",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Tournament ID",
                        "name": "tournament_id",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Статус матча",
                        "name": "status",
                        "in": "query"
                    },
                    {
                        "type": "boolean",
                        "description": "Только матчи, ждущие моего подтверждения",
                        "name": "awaiting",
                        "in": "query"
                    },
                    {
                        "type": "boolean",
                        "description": "Только несыгранные матчи",
                        "name": "not_played",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Страница",
                        "name": "page",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "description": "Размер страницы (до 100)",
                        "name": "per_page",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.MyMatchesPage"
                        }
                    },
                    "400": {
                        "description": "Некорректный параметр",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "422": {
                        "description": "Неизвестный статус",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/players/rating": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "players"
                ],
                "summary": "Общий рейтинг игроков",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/rating.PlayerStats"
                            }
                        }
                    }
                }
            }
        },
        "/players/{userID}/stats": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "players"
                ],
                "summary": "Статистика игрока по всем турнирам",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "User ID",
                        "name": "userID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/rating.PlayerStats"
                        }
                    },
                    "404": {
                        "description": "Игрок не найден",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/reports/{reportID}/confirm": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Матч подтверждён",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "403": {
                        "description": "Нельзя подтвердить собственный отчёт",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "Отчёт уже не ожидает подтверждения",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                },
                "summary": "Подтвердить результат соперника",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Report ID",
                        "name": "reportID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/reports/{reportID}/dispute": {
            "post": {
                "responses": {
                    "200": {
                        "description": "Отчёт отклонён, матч оспорен",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "403": {
                        "description": "Нельзя оспорить собственный отчёт",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "Отчёт уже не ожидает подтверждения",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                },
                "summary": "Оспорить результат соперника",
                "tags": [
                    "reports"
                ],
                "produces": [
                    "application/json"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Report ID",
                        "name": "reportID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/stages/{stageID}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.StageOverview"
                        }
                    }
                },
                "summary": "Стадия с матчами",
                "tags": [
                    "stages"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Stage ID",
                        "name": "stageID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/stages/{stageID}/bracket": {
            "get": {
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.BracketView"
                        }
                    },
                    "409": {
                        "description": "Стадия не плей-офф",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                },
                "summary": "Сетка плей-офф",
                "tags": [
                    "stages"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Stage ID",
                        "name": "stageID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/stages/{stageID}/head-to-head": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "stages"
                ],
                "summary": "Матрица личных встреч групповой стадии",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Stage ID",
                        "name": "stageID",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/standings.HeadToHead"
                        }
                    },
                    "404": {
                        "description": "Стадия не найдена",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "409": {
                        "description": "Стадия не групповая",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/stages/{stageID}/standings": {
            "get": {
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "409": {
                        "description": "Стадия не групповая",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                },
                "summary": "Таблица групповой стадии",
                "tags": [
                    "stages"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Stage ID",
                        "name": "stageID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.Tournament"
                        }
                    },
                    "404": {
                        "description": "Турнир не найден",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                },
                "summary": "Турнир со списком стадий",
                "tags": [
                    "tournaments"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Tournament ID",
                        "name": "tournamentID",
                        "in": "path",
                        "required": true
                    }
                ]
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "brackets.Seed": {
            "type": "object",
            "properties": {
                "participant_id": {
                    "type": "integer"
                },
                "seed": {
                    "type": "integer"
                }
            }
        },
        "brackets.Series": {
            "type": "object",
            "properties": {
                "round": {
                    "type": "integer"
                },
                "slot": {
                    "type": "integer"
                },
                "third_place": {
                    "type": "boolean"
                },
                "home_participant_id": {
                    "type": "integer"
                },
                "away_participant_id": {
                    "type": "integer"
                },
                "home_wins": {
                    "type": "integer"
                },
                "away_wins": {
                    "type": "integer"
                },
                "threshold": {
                    "type": "integer"
                },
                "state": {
                    "type": "string"
                },
                "winner_participant_id": {
                    "type": "integer"
                },
                "loser_participant_id": {
                    "type": "integer"
                },
                "games": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Match"
                    }
                }
            }
        },
        "models.Match": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "stage_id": {
                    "type": "integer"
                },
                "home_participant_id": {
                    "type": "integer"
                },
                "away_participant_id": {
                    "type": "integer"
                },
                "game_number": {
                    "type": "integer"
                },
                "status": {
                    "type": "string"
                },
                "score_home": {
                    "type": "integer"
                },
                "score_away": {
                    "type": "integer"
                },
                "ot": {
                    "type": "boolean"
                },
                "so": {
                    "type": "boolean"
                },
                "round": {
                    "type": "integer"
                },
                "slot": {
                    "type": "integer"
                },
                "third_place": {
                    "type": "boolean"
                },
                "confirmed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "meta": {
                    "$ref": "#/definitions/models.MatchMeta"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.MatchMeta": {
            "type": "object",
            "properties": {
                "auto_confirmed": {
                    "type": "boolean"
                },
                "auto_confirmed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "round_label": {
                    "type": "string"
                }
            }
        },
        "models.MatchReport": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "match_id": {
                    "type": "integer"
                },
                "reporter_participant_id": {
                    "type": "integer"
                },
                "score_home": {
                    "type": "integer"
                },
                "score_away": {
                    "type": "integer"
                },
                "ot": {
                    "type": "boolean"
                },
                "so": {
                    "type": "boolean"
                },
                "comment": {
                    "type": "string"
                },
                "attachments": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "status": {
                    "type": "string"
                },
                "confirmer_participant_id": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.Participant": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "tournament_id": {
                    "type": "integer"
                },
                "user_id": {
                    "type": "integer"
                },
                "team_id": {
                    "type": "integer"
                },
                "display_name": {
                    "type": "string"
                },
                "is_active": {
                    "type": "boolean"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.PlayoffSettings": {
            "type": "object",
            "properties": {
                "source_stage_id": {
                    "type": "integer"
                },
                "size": {
                    "type": "integer"
                },
                "losses_to_eliminate": {
                    "type": "integer"
                },
                "third_place": {
                    "type": "boolean"
                },
                "seeds": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                }
            }
        },
        "models.Stage": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "tournament_id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "kind": {
                    "type": "string"
                },
                "order": {
                    "type": "integer"
                },
                "games_per_pair": {
                    "type": "integer"
                },
                "settings": {
                    "type": "object"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                }
            }
        },
        "models.Standing": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "stage_id": {
                    "type": "integer"
                },
                "participant_id": {
                    "type": "integer"
                },
                "games_played": {
                    "type": "integer"
                },
                "wins": {
                    "type": "integer"
                },
                "ot_wins": {
                    "type": "integer"
                },
                "so_wins": {
                    "type": "integer"
                },
                "losses": {
                    "type": "integer"
                },
                "ot_losses": {
                    "type": "integer"
                },
                "so_losses": {
                    "type": "integer"
                },
                "goals_for": {
                    "type": "integer"
                },
                "goals_against": {
                    "type": "integer"
                },
                "goal_diff": {
                    "type": "integer"
                },
                "points": {
                    "type": "integer"
                },
                "tech_losses": {
                    "type": "integer"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "participant": {
                    "$ref": "#/definitions/models.Participant"
                }
            }
        },
        "models.Tournament": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "winner_participant_id": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "stages": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Stage"
                    }
                }
            }
        },
        "rating.PlayerStats": {
            "type": "object",
            "properties": {
                "rank": {
                    "type": "integer"
                },
                "user_id": {
                    "type": "integer"
                },
                "display_name": {
                    "type": "string"
                },
                "rating_points": {
                    "type": "integer"
                },
                "matches_played": {
                    "type": "integer"
                },
                "wins": {
                    "type": "integer"
                },
                "losses": {
                    "type": "integer"
                },
                "win_rate": {
                    "type": "number"
                },
                "goals_for": {
                    "type": "integer"
                },
                "goals_against": {
                    "type": "integer"
                },
                "goal_diff": {
                    "type": "integer"
                },
                "goals_for_per_game": {
                    "type": "number"
                },
                "goals_against_per_game": {
                    "type": "number"
                },
                "tournaments_won": {
                    "type": "integer"
                },
                "playoff_appearances": {
                    "type": "integer"
                },
                "final_appearances": {
                    "type": "integer"
                },
                "group_avg_position": {
                    "type": "number"
                },
                "last_match_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "matches_last_30_days": {
                    "type": "integer"
                },
                "current_streak_kind": {
                    "type": "string"
                },
                "current_streak_length": {
                    "type": "integer"
                },
                "best_win_streak": {
                    "type": "integer"
                }
            }
        },
        "services.AdminUpdateMatchInput": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "score_home": {
                    "type": "integer"
                },
                "score_away": {
                    "type": "integer"
                },
                "ot": {
                    "type": "boolean"
                },
                "so": {
                    "type": "boolean"
                }
            }
        },
        "services.AdvanceResult": {
            "type": "object",
            "properties": {
                "stage_id": {
                    "type": "integer"
                },
                "tournament_id": {
                    "type": "integer"
                },
                "round": {
                    "type": "integer"
                },
                "series": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/brackets.Series"
                    }
                },
                "canceled_match_ids": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "next_round": {
                    "type": "integer"
                },
                "created_matches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Match"
                    }
                },
                "third_place_created": {
                    "type": "boolean"
                },
                "completed": {
                    "type": "boolean"
                },
                "champion_participant_id": {
                    "type": "integer"
                }
            }
        },
        "services.AutoConfirmSummary": {
            "type": "object",
            "properties": {
                "due": {
                    "type": "integer"
                },
                "confirmed": {
                    "type": "integer"
                },
                "skipped": {
                    "type": "integer"
                },
                "failed": {
                    "type": "integer"
                },
                "busy": {
                    "type": "boolean"
                }
            }
        },
        "services.BracketView": {
            "type": "object",
            "properties": {
                "stage": {
                    "$ref": "#/definitions/models.Stage"
                },
                "settings": {
                    "$ref": "#/definitions/models.PlayoffSettings"
                },
                "rounds": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/services.RoundView"
                    }
                },
                "completed": {
                    "type": "boolean"
                },
                "champion_participant_id": {
                    "type": "integer"
                },
                "participants": {
                    "type": "object",
                    "additionalProperties": {
                        "$ref": "#/definitions/models.Participant"
                    }
                }
            }
        },
        "services.CreateStageInput": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "kind": {
                    "type": "string"
                },
                "games_per_pair": {
                    "type": "integer"
                }
            }
        },
        "services.GeneratePlayoffInput": {
            "type": "object",
            "properties": {
                "source_stage_id": {
                    "type": "integer"
                },
                "size": {
                    "type": "integer"
                },
                "losses_to_eliminate": {
                    "type": "integer"
                },
                "games_per_pair": {
                    "type": "integer"
                },
                "third_place": {
                    "type": "boolean"
                },
                "name": {
                    "type": "string"
                }
            }
        },
        "services.MatchDetails": {
            "type": "object",
            "properties": {
                "match": {
                    "$ref": "#/definitions/models.Match"
                },
                "reports": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.MatchReport"
                    }
                }
            }
        },
        "services.MyMatch": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "stage_id": {
                    "type": "integer"
                },
                "home_participant_id": {
                    "type": "integer"
                },
                "away_participant_id": {
                    "type": "integer"
                },
                "game_number": {
                    "type": "integer"
                },
                "status": {
                    "type": "string"
                },
                "score_home": {
                    "type": "integer"
                },
                "score_away": {
                    "type": "integer"
                },
                "ot": {
                    "type": "boolean"
                },
                "so": {
                    "type": "boolean"
                },
                "round": {
                    "type": "integer"
                },
                "slot": {
                    "type": "integer"
                },
                "third_place": {
                    "type": "boolean"
                },
                "confirmed_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "meta": {
                    "$ref": "#/definitions/models.MatchMeta"
                },
                "created_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "updated_at": {
                    "type": "string",
                    "format": "date-time"
                },
                "tournament_id": {
                    "type": "integer"
                },
                "stage_name": {
                    "type": "string"
                },
                "my_participant_id": {
                    "type": "integer"
                },
                "opponent_participant_id": {
                    "type": "integer"
                },
                "latest_report": {
                    "$ref": "#/definitions/models.MatchReport"
                },
                "awaiting_me": {
                    "type": "boolean"
                }
            }
        },
        "services.MyMatchesPage": {
            "type": "object",
            "properties": {
                "matches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/services.MyMatch"
                    }
                },
                "participant_ids": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "overall_total": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                },
                "page": {
                    "type": "integer"
                },
                "per_page": {
                    "type": "integer"
                }
            }
        },
        "services.PlayoffGenerationResult": {
            "type": "object",
            "properties": {
                "stage": {
                    "$ref": "#/definitions/models.Stage"
                },
                "seeds": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/brackets.Seed"
                    }
                },
                "matches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Match"
                    }
                }
            }
        },
        "services.RoundRobinResult": {
            "type": "object",
            "properties": {
                "stage": {
                    "$ref": "#/definitions/models.Stage"
                },
                "created": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Match"
                    }
                }
            }
        },
        "services.RoundView": {
            "type": "object",
            "properties": {
                "round": {
                    "type": "integer"
                },
                "series": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/brackets.Series"
                    }
                },
                "third_place": {
                    "$ref": "#/definitions/brackets.Series"
                }
            }
        },
        "services.StageOverview": {
            "type": "object",
            "properties": {
                "stage": {
                    "$ref": "#/definitions/models.Stage"
                },
                "matches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Match"
                    }
                },
                "standings": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Standing"
                    }
                }
            }
        },
        "services.SubmitReportInput": {
            "type": "object",
            "properties": {
                "score_home": {
                    "type": "integer"
                },
                "score_away": {
                    "type": "integer"
                },
                "ot": {
                    "type": "boolean"
                },
                "so": {
                    "type": "boolean"
                },
                "comment": {
                    "type": "string"
                },
                "attachments": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "standings.Cell": {
            "type": "object",
            "properties": {
                "opponent_id": {
                    "type": "integer"
                },
                "self": {
                    "type": "boolean"
                },
                "games": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/standings.Score"
                    }
                }
            }
        },
        "standings.HeadToHead": {
            "type": "object",
            "properties": {
                "participants": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "rows": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/standings.HeadToHeadRow"
                    }
                }
            }
        },
        "standings.HeadToHeadRow": {
            "type": "object",
            "properties": {
                "participant_id": {
                    "type": "integer"
                },
                "position": {
                    "type": "integer"
                },
                "cells": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/standings.Cell"
                    }
                }
            }
        },
        "standings.Score": {
            "type": "object",
            "properties": {
                "match_id": {
                    "type": "integer"
                },
                "game_number": {
                    "type": "integer"
                },
                "value": {
                    "type": "string"
                },
                "outcome": {
                    "type": "string"
                },
                "ot": {
                    "type": "boolean"
                },
                "so": {
                    "type": "boolean"
                },
                "provisional": {
                    "type": "boolean"
                }
            }
        },
        "storage.UploadResult": {
            "type": "object",
            "properties": {
                "key": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "etag": {
                    "type": "string"
                }
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
	Title:            "League Engine API",
	Description:      "Турнирный движок: таблицы групповых стадий, сетка плей-офф и подтверждение результатов.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
