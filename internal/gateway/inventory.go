// inventory.go

package gateway

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jacl-coder/TerraRealm-Server/internal/game"
	"github.com/jacl-coder/TerraRealm-Server/internal/store"
)

// InventoryHandler 背包处理器
type InventoryHandler struct {
	engine *game.Engine
}

// UseItemRequest 使用物品请求
type UseItemRequest struct {
	PlayerID int64 `json:"player_id"`
	ItemID   int   `json:"item_id"`
}

// NewInventoryHandler 创建背包处理器
func NewInventoryHandler(engine *game.Engine) *InventoryHandler {
	return &InventoryHandler{engine: engine}
}

// RegisterHandlers 注册HTTP处理器
func (h *InventoryHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/inventory/use", h.handleUseItem)
	mux.HandleFunc("/inventory/", h.handleGetInventory)
}

// handleGetInventory 查询玩家背包
func (h *InventoryHandler) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	// 提取玩家ID - 路径格式: /inventory/{player_id}
	path := strings.TrimPrefix(r.URL.Path, "/inventory/")
	playerID, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		writeError(w, "无效的玩家ID", http.StatusBadRequest)
		return
	}

	entries, err := h.engine.Store().GetInventory(playerID)
	if err != nil {
		log.Printf("查询背包失败: %v", err)
		writeError(w, "查询背包失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, "查询成功", entries)
}

// handleUseItem 使用背包中的消耗品
func (h *InventoryHandler) handleUseItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req UseItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	player, err := h.engine.UseItem(req.PlayerID, req.ItemID)
	if err != nil {
		switch err {
		case game.ErrPlayerNotFound:
			writeError(w, "玩家不存在", http.StatusNotFound)
		case store.ErrNotFound:
			writeError(w, "物品不存在", http.StatusNotFound)
		case store.ErrInsufficientQuantity:
			writeError(w, "物品数量不足", http.StatusBadRequest)
		case game.ErrItemNotUsable:
			writeError(w, "该物品无法使用", http.StatusBadRequest)
		default:
			log.Printf("使用物品失败: %v", err)
			writeError(w, "使用物品失败", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, "使用成功", player)
}
