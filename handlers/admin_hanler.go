package handlers

import (
	"net/http"

	"github.com/Dosada05/league-engine/services"
)

type AdminHandler struct {
	adminService      services.AdminMatchService
	matchService      services.MatchService
	tournamentService services.TournamentService
	standingsService  services.StandingsService
	bracketService    services.BracketService
}

func NewAdminHandler(
	as services.AdminMatchService,
	ms services.MatchService,
	ts services.TournamentService,
	ss services.StandingsService,
	bs services.BracketService,
) *AdminHandler {
	return &AdminHandler{
		adminService:      as,
		matchService:      ms,
		tournamentService: ts,
		standingsService:  ss,
		bracketService:    bs,
	}
}

// CreateStage godoc
// @Summary Создать стадию турнира
// @Tags admin
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param body body services.CreateStageInput true "Стадия"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Ошибка валидации"
// @Security BearerAuth
// @Router /admin/tournaments/{tournamentID}/stages [post]
func (h *AdminHandler) CreateStage(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateStageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stage, err := h.tournamentService.CreateStage(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"stage": stage}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateRoundRobin godoc
// @Summary Сгенерировать расписание групповой стадии
// @Tags admin
// @Produce json
// @Param stageID path int true "Stage ID"
// @Success 200 {object} services.RoundRobinResult
// @Failure 409 {object} map[string]string "Стадия не групповая"
// @Security BearerAuth
// @Router /admin/stages/{stageID}/round-robin [post]
func (h *AdminHandler) GenerateRoundRobin(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.tournamentService.GenerateRoundRobin(r.Context(), stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"stage": result.Stage, "created": result.Created}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecalculateStandings godoc
// @Summary Пересчитать таблицу групповой стадии
// @Tags admin
// @Produce json
// @Param stageID path int true "Stage ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/stages/{stageID}/recalculate [post]
func (h *AdminHandler) RecalculateStandings(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	table, err := h.standingsService.RecomputeStage(r.Context(), stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceStage godoc
// @Summary Проверить текущий раунд плей-офф и создать следующий
// @Tags admin
// @Produce json
// @Param stageID path int true "Stage ID"
// @Success 200 {object} services.AdvanceResult
// @Security BearerAuth
// @Router /admin/stages/{stageID}/advance [post]
func (h *AdminHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.bracketService.AdvanceStage(r.Context(), stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GeneratePlayoff godoc
// @Summary Сгенерировать первый раунд плей-офф
// @Tags admin
// @Description Пересоздаёт сетку: существующие матчи плей-офф удаляются.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param body body services.GeneratePlayoffInput true "Настройки сетки"
// @Success 201 {object} services.PlayoffGenerationResult
// @Failure 409 {object} map[string]string "Недостаточно участников"
// @Security BearerAuth
// @Router /admin/tournaments/{tournamentID}/playoff [post]
func (h *AdminHandler) GeneratePlayoff(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GeneratePlayoffInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.bracketService.GenerateFirstRound(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"stage": result.Stage, "seeds": result.Seeds, "matches": result.Matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateMatch godoc
// @Summary Исправить счёт или статус матча
// @Tags admin
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param body body services.AdminUpdateMatchInput true "Изменения"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/matches/{matchID} [put]
func (h *AdminHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AdminUpdateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.adminService.UpdateMatch(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmReport godoc
// @Summary Подтвердить отчёт от имени администратора
// @Tags admin
// @Produce json
// @Param matchID path int true "Match ID"
// @Param reportID path int true "Report ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/matches/{matchID}/reports/{reportID}/confirm [post]
func (h *AdminHandler) ConfirmReport(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	reportID, err := getIDFromURL(r, "reportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.adminService.ConfirmReport(r.Context(), matchID, reportID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteReport godoc
// @Summary Удалить отчёт
// @Tags admin
// @Param matchID path int true "Match ID"
// @Param reportID path int true "Report ID"
// @Success 204 "Отчёт удалён"
// @Security BearerAuth
// @Router /admin/matches/{matchID}/reports/{reportID} [delete]
func (h *AdminHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	reportID, err := getIDFromURL(r, "reportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.adminService.DeleteReport(r.Context(), matchID, reportID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunAutoConfirm godoc
// @Summary Запустить авто-подтверждение немедленно
// @Tags admin
// @Produce json
// @Success 200 {object} services.AutoConfirmSummary
// @Security BearerAuth
// @Router /admin/auto-confirm [post]
func (h *AdminHandler) RunAutoConfirm(w http.ResponseWriter, r *http.Request) {
	summary, err := h.matchService.AutoConfirmDue(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"summary": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
