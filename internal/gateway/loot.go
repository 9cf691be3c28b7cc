// loot.go

package gateway

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jacl-coder/TerraRealm-Server/internal/game"
	"github.com/jacl-coder/TerraRealm-Server/internal/store"
)

// LootHandler 世界掉落物处理器
type LootHandler struct {
	engine *game.Engine
}

// CollectLootRequest 拾取请求
type CollectLootRequest struct {
	PlayerID int64  `json:"player_id"`
	LootID   string `json:"loot_id"`
}

// NewLootHandler 创建掉落物处理器
func NewLootHandler(engine *game.Engine) *LootHandler {
	return &LootHandler{engine: engine}
}

// RegisterHandlers 注册HTTP处理器
func (h *LootHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/loot/zone", h.handleZoneLoot)
	mux.HandleFunc("/loot/collect", h.handleCollect)
}

// handleZoneLoot 查询当前区域未过期的掉落物
func (h *LootHandler) handleZoneLoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	loot, err := h.engine.Store().GetWorldLootInZone(h.engine.Zone())
	if err != nil {
		log.Printf("查询区域掉落物失败: %v", err)
		writeError(w, "查询掉落物失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, "查询成功", loot)
}

// handleCollect 拾取世界掉落物
func (h *LootHandler) handleCollect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req CollectLootRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "无效的请求格式", http.StatusBadRequest)
		return
	}
	if req.PlayerID == 0 || req.LootID == "" {
		writeError(w, "缺少必要参数", http.StatusBadRequest)
		return
	}

	loot, err := h.engine.CollectLoot(req.PlayerID, req.LootID)
	if err != nil {
		switch err {
		case game.ErrPlayerNotFound:
			writeError(w, "玩家不存在", http.StatusNotFound)
		case store.ErrNotFound:
			writeError(w, "掉落物不存在", http.StatusNotFound)
		case game.ErrLootExpired:
			writeError(w, "掉落物已过期", http.StatusBadRequest)
		case game.ErrOutOfRange:
			writeError(w, "超出拾取距离", http.StatusBadRequest)
		default:
			log.Printf("拾取掉落物失败: %v", err)
			writeError(w, "拾取失败", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, "拾取成功", loot)
}
