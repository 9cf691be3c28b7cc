// game.go

package gateway

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jacl-coder/TerraRealm-Server/internal/game"
	"github.com/jacl-coder/TerraRealm-Server/internal/models"
	"github.com/jacl-coder/TerraRealm-Server/internal/store"
)

// GameHandler 游戏状态处理器
//
// 管理端施法与转生和实时通道走同一个引擎，
// 产生的世界事件广播给所有连接。
type GameHandler struct {
	engine      *game.Engine
	broadcaster game.Broadcaster
}

// UseAbilityRequest 施法请求
type UseAbilityRequest struct {
	PlayerID    int64  `json:"player_id"`
	AbilityName string `json:"ability_name"`
	TargetID    string `json:"target_id,omitempty"`
}

// RebirthRequest 转生请求
type RebirthRequest struct {
	PlayerID int64 `json:"player_id"`
}

// GameStateResponse 游戏状态响应
type GameStateResponse struct {
	Player    *models.Player      `json:"player"`
	Monsters  []*models.Monster   `json:"monsters"`
	WorldLoot []*models.WorldLoot `json:"world_loot"`
}

// NewGameHandler 创建游戏状态处理器
func NewGameHandler(engine *game.Engine, broadcaster game.Broadcaster) *GameHandler {
	return &GameHandler{
		engine:      engine,
		broadcaster: broadcaster,
	}
}

// RegisterHandlers 注册HTTP处理器
func (h *GameHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/game/state/", h.handleGameState)
	mux.HandleFunc("/game/resources", h.handleResources)
	mux.HandleFunc("/game/ability", h.handleUseAbility)
	mux.HandleFunc("/game/rebirth", h.handleRebirth)
	mux.HandleFunc("/players/online", h.handleOnlinePlayers)
}

// handleGameState 查询玩家视角的游戏状态
func (h *GameHandler) handleGameState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	// 提取玩家ID - 路径格式: /game/state/{player_id}
	path := strings.TrimPrefix(r.URL.Path, "/game/state/")
	playerID, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		writeError(w, "无效的玩家ID", http.StatusBadRequest)
		return
	}

	player, err := h.engine.Store().GetPlayer(playerID)
	if err != nil {
		if err == store.ErrNotFound {
			writeError(w, "玩家不存在", http.StatusNotFound)
			return
		}
		log.Printf("查询玩家失败: %v", err)
		writeError(w, "查询玩家失败", http.StatusInternalServerError)
		return
	}

	monsters, err := h.engine.Store().GetMonstersInZone(h.engine.Zone())
	if err != nil {
		log.Printf("查询区域怪物失败: %v", err)
		writeError(w, "查询游戏状态失败", http.StatusInternalServerError)
		return
	}

	loot, err := h.engine.Store().GetWorldLootInZone(h.engine.Zone())
	if err != nil {
		log.Printf("查询区域掉落物失败: %v", err)
		writeError(w, "查询游戏状态失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, "查询成功", GameStateResponse{
		Player:    player,
		Monsters:  monsters,
		WorldLoot: loot,
	})
}

// handleResources 查询静态资源（法术目录与物品目录）
func (h *GameHandler) handleResources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	items, err := h.engine.Store().GetAllLootItems()
	if err != nil {
		log.Printf("查询物品目录失败: %v", err)
		writeError(w, "查询资源失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, "查询成功", map[string]interface{}{
		"abilities": h.engine.Abilities().All(),
		"items":     items,
	})
}

// handleUseAbility 管理端施法入口
//
// 与实时通道调用同一个UseAbility，成功时向所有连接广播战斗事件。
func (h *GameHandler) handleUseAbility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req UseAbilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "无效的请求格式", http.StatusBadRequest)
		return
	}
	if req.PlayerID == 0 || req.AbilityName == "" {
		writeError(w, "缺少必要参数", http.StatusBadRequest)
		return
	}

	result, err := h.engine.UseAbility(req.PlayerID, req.AbilityName, req.TargetID)
	if err != nil {
		log.Printf("施法处理失败: %v", err)
		writeError(w, "施法处理失败", http.StatusInternalServerError)
		return
	}

	if result.Success {
		h.broadcaster.Broadcast("combat_action", result)
	}

	// 规则校验失败是结构化结果而非错误
	writeJSON(w, result.Message, result)
}

// handleRebirth 处理转生请求
func (h *GameHandler) handleRebirth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	var req RebirthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	player, err := h.engine.Rebirth(req.PlayerID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			writeError(w, "玩家不存在", http.StatusNotFound)
		case store.ErrRebirthNotAllowed:
			writeError(w, "转生需要达到100级", http.StatusBadRequest)
		default:
			log.Printf("转生失败: %v", err)
			writeError(w, "转生失败", http.StatusInternalServerError)
		}
		return
	}

	h.broadcaster.Broadcast("player_rebirth", player)

	writeJSON(w, "转生成功", player)
}

// handleOnlinePlayers 查询在线玩家列表
func (h *GameHandler) handleOnlinePlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	players, err := h.engine.Store().GetOnlinePlayers()
	if err != nil {
		log.Printf("查询在线玩家失败: %v", err)
		writeError(w, "查询在线玩家失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, "查询成功", players)
}
