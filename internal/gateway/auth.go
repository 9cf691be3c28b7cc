package gateway

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jacl-coder/TerraRealm-Server/internal/models"
	"github.com/jacl-coder/TerraRealm-Server/internal/store"
	"github.com/jacl-coder/TerraRealm-Server/pkg/db"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	store      store.Store
	jwtSecret  []byte
	useRedis   bool
	sessionTTL time.Duration
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	Token  string         `json:"token"`
	Player *models.Player `json:"player"`
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(st store.Store, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		store:      st,
		jwtSecret:  []byte(jwtSecret),
		useRedis:   db.RedisClient != nil,
		sessionTTL: 24 * time.Hour,
	}
}

// RegisterHandlers 注册HTTP处理器
func (h *AuthHandler) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/auth/register", h.handleRegister)
	mux.HandleFunc("/auth/login", h.handleLogin)
}

// handleRegister 处理注册请求
func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	// 解析请求
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, "缺少必要参数", http.StatusBadRequest)
		return
	}

	// 用户名冲突检查
	if _, err := h.store.GetPlayerByUsername(req.Username); err == nil {
		writeError(w, "用户名已存在", http.StatusConflict)
		return
	} else if err != store.ErrNotFound {
		log.Printf("查询用户名失败: %v", err)
		writeError(w, "注册失败", http.StatusInternalServerError)
		return
	}

	player, err := h.store.CreatePlayer(req.Username, hashPassword(req.Password))
	if err != nil {
		log.Printf("创建玩家失败: %v", err)
		writeError(w, "注册失败", http.StatusInternalServerError)
		return
	}

	token, err := h.issueToken(player.ID)
	if err != nil {
		log.Printf("生成令牌失败: %v", err)
		writeError(w, "生成令牌失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, "注册成功", AuthResponse{Token: token, Player: player})
}

// handleLogin 处理登录请求
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "仅支持POST方法", http.StatusMethodNotAllowed)
		return
	}

	// 解析请求
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "无效的请求格式", http.StatusBadRequest)
		return
	}

	player, err := h.store.GetPlayerByUsername(req.Username)
	if err != nil || player.Password != hashPassword(req.Password) {
		writeError(w, "用户名或密码错误", http.StatusUnauthorized)
		return
	}

	token, err := h.issueToken(player.ID)
	if err != nil {
		log.Printf("生成令牌失败: %v", err)
		writeError(w, "生成令牌失败", http.StatusInternalServerError)
		return
	}

	writeJSON(w, "登录成功", AuthResponse{Token: token, Player: player})
}

// issueToken 签发JWT令牌并在Redis中记录会话
func (h *AuthHandler) issueToken(playerID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(playerID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.sessionTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		return "", err
	}

	// 会话记录仅用于在线统计，Redis不可用时跳过
	if h.useRedis {
		sessionKey := fmt.Sprintf("session:%d", playerID)
		if err := db.RedisClient.Set(db.Ctx, sessionKey, signed, h.sessionTTL).Err(); err != nil {
			log.Printf("保存会话到Redis失败: %v", err)
		}
	}

	return signed, nil
}

// hashPassword 计算密码哈希
func hashPassword(password string) string {
	// 使用SHA-256哈希
	// 在实际应用中，应该使用更安全的哈希算法，如bcrypt
	hash := sha256.Sum256([]byte(password))
	return fmt.Sprintf("%x", hash)
}
