// chat.go

package gateway

import (
	"log"
	"net/http"
	"strconv"

	"github.com/jacl-coder/TerraRealm-Server/internal/store"
)

// ChatHandler 聊天记录处理器
type ChatHandler struct {
	store store.Store
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(st store.Store) *ChatHandler {
	return &ChatHandler{store: st}
}

// RegisterHandlers 注册HTTP处理器
func (h *ChatHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/chat/history", h.handleHistory)
}

// handleHistory 查询最近的聊天记录
func (h *ChatHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "仅支持GET方法", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, "无效的limit参数", http.StatusBadRequest)
			return
		}
		if parsed > 200 {
			parsed = 200
		}
		limit = parsed
	}

	messages, err := h.store.GetChatHistory(limit)
	if err != nil {
		log.Printf("查询聊天记录失败: %v", err)
		writeError(w, "查询聊天记录失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, "查询成功", messages)
}
