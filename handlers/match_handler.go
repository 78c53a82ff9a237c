package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/league-engine/middleware"
	"github.com/Dosada05/league-engine/services"
)

type MatchHandler struct {
	matchService      services.MatchService
	attachmentService services.AttachmentService
}

func NewMatchHandler(ms services.MatchService, as services.AttachmentService) *MatchHandler {
	return &MatchHandler{
		matchService:      ms,
		attachmentService: as,
	}
}

// GetMatch godoc
// @Summary Матч с отчётами
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} services.MatchDetails
// @Failure 404 {object} map[string]string "Матч не найден"
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	details, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": details.Match, "reports": details.Reports}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitReport godoc
// @Summary Отправить результат матча
// @Tags matches
// @Description Участник матча отправляет счёт. Предыдущий ожидающий отчёт становится неактуальным.
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param body body services.SubmitReportInput true "Счёт матча"
// @Success 201 {object} map[string]interface{} "Отчёт создан"
// @Failure 400 {object} map[string]string "Некорректный JSON"
// @Failure 403 {object} map[string]string "Пользователь не участник матча"
// @Failure 409 {object} map[string]string "Матч уже закрыт"
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Security BearerAuth
// @Router /matches/{matchID}/reports [post]
func (h *MatchHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.SubmitReportInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.matchService.SubmitReport(r.Context(), currentUserID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadAttachment godoc
// @Summary Загрузить скриншот результата
// @Tags matches
// @Accept multipart/form-data
// @Produce json
// @Param matchID path int true "Match ID"
// @Param file formData file true "PNG, JPEG или WebP до 5 МБ"
// @Success 201 {object} storage.UploadResult
// @Failure 403 {object} map[string]string "Пользователь не участник матча"
// @Failure 415 {object} map[string]string "Неподдерживаемый тип файла"
// @Security BearerAuth
// @Router /matches/{matchID}/attachments [post]
func (h *MatchHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxAttachmentSize+1<<20)
	if err := r.ParseMultipartForm(services.MaxAttachmentSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	result, err := h.attachmentService.UploadScreenshot(r.Context(), currentUserID, matchID, contentType, header.Size, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"attachment": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmReport godoc
// @Summary Подтвердить результат соперника
// @Tags reports
// @Produce json
// @Param reportID path int true "Report ID"
// @Success 200 {object} map[string]interface{} "Матч подтверждён"
// @Failure 403 {object} map[string]string "Нельзя подтвердить собственный отчёт"
// @Failure 409 {object} map[string]string "Отчёт уже не ожидает подтверждения"
// @Security BearerAuth
// @Router /reports/{reportID}/confirm [post]
func (h *MatchHandler) ConfirmReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := getIDFromURL(r, "reportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	match, err := h.matchService.ConfirmReport(r.Context(), currentUserID, reportID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DisputeReport godoc
// @Summary Оспорить результат соперника
// @Tags reports
// @Produce json
// @Param reportID path int true "Report ID"
// @Success 200 {object} map[string]interface{} "Отчёт отклонён, матч оспорен"
// @Failure 403 {object} map[string]string "Нельзя оспорить собственный отчёт"
// @Failure 409 {object} map[string]string "Отчёт уже не ожидает подтверждения"
// @Security BearerAuth
// @Router /reports/{reportID}/dispute [post]
func (h *MatchHandler) DisputeReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := getIDFromURL(r, "reportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	report, err := h.matchService.DisputeReport(r.Context(), currentUserID, reportID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
