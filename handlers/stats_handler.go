package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Dosada05/league-engine/middleware"
	"github.com/Dosada05/league-engine/models"
	"github.com/Dosada05/league-engine/services"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(ss services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: ss}
}

// GetRating godoc
// @Summary Общий рейтинг игроков
// @Tags players
// @Produce json
// @Success 200 {array} rating.PlayerStats
// @Router /players/rating [get]
func (h *StatsHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	players, err := h.statsService.PlayerRating(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetPlayerStats godoc
// @Summary Статистика игрока по всем турнирам
// @Tags players
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} rating.PlayerStats
// @Failure 404 {object} map[string]string "Игрок не найден"
// @Router /players/{userID}/stats [get]
func (h *StatsHandler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.statsService.PlayerStats(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHeadToHead godoc
// @Summary Матрица личных встреч групповой стадии
// @Tags stages
// @Produce json
// @Param stageID path int true "Stage ID"
// @Success 200 {object} standings.HeadToHead
// @Failure 404 {object} map[string]string "Стадия не найдена"
// @Failure 409 {object} map[string]string "Стадия не групповая"
// @Router /stages/{stageID}/head-to-head [get]
func (h *StatsHandler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matrix, err := h.statsService.HeadToHead(r.Context(), stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, matrix, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMyMatches godoc
// @Summary Матчи текущего пользователя
// @Tags players
// @Produce json
// @Param tournament_id query int false "Tournament ID"
// @Param status query string false "Статус матча"
// @Param awaiting query bool false "Только матчи, ждущие моего подтверждения"
// @Param not_played query bool false "Только несыгранные матчи"
// @Param page query int false "Страница"
// @Param per_page query int false "Размер страницы (до 100)"
// @Success 200 {object} services.MyMatchesPage
// @Failure 400 {object} map[string]string "Некорректный параметр"
// @Failure 422 {object} map[string]string "Неизвестный статус"
// @Security BearerAuth
// @Router /me/matches [get]
func (h *StatsHandler) GetMyMatches(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	filter, err := readMyMatchesFilter(r.URL.Query())
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	page, err := h.statsService.MyMatches(r.Context(), currentUserID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, page, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func readMyMatchesFilter(q url.Values) (services.MyMatchesFilter, error) {
	filter := services.MyMatchesFilter{Status: models.MatchStatus(q.Get("status"))}

	ints := []struct {
		name string
		dst  *int
	}{
		{"tournament_id", &filter.TournamentID},
		{"page", &filter.Page},
		{"per_page", &filter.PerPage},
	}
	for _, p := range ints {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return filter, fmt.Errorf("invalid %s query parameter: %q", p.name, raw)
		}
		*p.dst = v
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"awaiting", &filter.Awaiting},
		{"not_played", &filter.NotPlayed},
	}
	for _, p := range bools {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid %s query parameter: %q", p.name, raw)
		}
		*p.dst = v
	}
	return filter, nil
}
