// leaderboard.go

package gateway

import (
	"log"
	"net/http"
	"strconv"

	"github.com/jacl-coder/TerraRealm-Server/internal/models"
	"github.com/jacl-coder/TerraRealm-Server/pkg/db"
)

// LeaderboardHandler 排行榜处理器
type LeaderboardHandler struct {
	leaderboard *models.RedisLeaderboard
}

// NewLeaderboardHandler 创建排行榜处理器
func NewLeaderboardHandler() *LeaderboardHandler {
	h := &LeaderboardHandler{}
	if db.RedisClient != nil {
		h.leaderboard = models.NewRedisLeaderboard()
	}
	return h
}

// RegisterHandlers 注册HTTP处理器
func (h *LeaderboardHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/leaderboard", h.handleLeaderboard)
	mux.HandleFunc("/leaderboard/rank", h.handleRank)
	mux.HandleFunc("/leaderboard/refresh", h.handleRefresh)
}

// handleLeaderboard 查询排行榜
//
// type参数取值: exp（默认）、level、rebirth
func (h *LeaderboardHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}
	if h.leaderboard == nil {
		writeError(w, "排行榜服务不可用", http.StatusServiceUnavailable)
		return
	}

	boardType, ok := parseBoardType(r.URL.Query().Get("type"))
	if !ok {
		writeError(w, "无效的排行榜类型", http.StatusBadRequest)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, "无效的limit参数", http.StatusBadRequest)
			return
		}
		if parsed > 100 {
			parsed = 100
		}
		limit = parsed
	}

	entries, err := h.leaderboard.GetLeaderboard(boardType, limit)
	if err != nil {
		log.Printf("查询排行榜失败: %v", err)
		writeError(w, "查询排行榜失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, "查询成功", entries)
}

// handleRank 查询单个玩家的排名
func (h *LeaderboardHandler) handleRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}
	if h.leaderboard == nil {
		writeError(w, "排行榜服务不可用", http.StatusServiceUnavailable)
		return
	}

	playerID, err := strconv.ParseInt(r.URL.Query().Get("player_id"), 10, 64)
	if err != nil {
		writeError(w, "无效的玩家ID", http.StatusBadRequest)
		return
	}

	boardType, ok := parseBoardType(r.URL.Query().Get("type"))
	if !ok {
		writeError(w, "无效的排行榜类型", http.StatusBadRequest)
		return
	}

	rank, err := h.leaderboard.GetPlayerRank(playerID, boardType)
	if err != nil {
		log.Printf("查询玩家排名失败: %v", err)
		writeError(w, "查询排名失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, "查询成功", map[string]interface{}{
		"player_id": playerID,
		"type":      boardType,
		"rank":      rank,
	})
}

// handleRefresh 从数据库重建排行榜（管理操作）
func (h *LeaderboardHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}
	if h.leaderboard == nil {
		writeError(w, "排行榜服务不可用", http.StatusServiceUnavailable)
		return
	}

	if err := h.leaderboard.RefreshLeaderboard(); err != nil {
		log.Printf("刷新排行榜失败: %v", err)
		writeError(w, "刷新排行榜失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, "排行榜已刷新", nil)
}

// parseBoardType 解析排行榜类型参数
func parseBoardType(raw string) (models.LeaderboardType, bool) {
	switch raw {
	case "", "exp":
		return models.LeaderboardExp, true
	case "level":
		return models.LeaderboardLevel, true
	case "rebirth":
		return models.LeaderboardRebirth, true
	default:
		return "", false
	}
}
