// cooldown.go

package game

import (
	"sync"
	"time"
)

// CooldownTracker 法术冷却跟踪器
//
// 两级映射：玩家ID -> 法术名 -> 冷却到期时刻。
// 仅存在于内存中，进程重启后所有冷却视为就绪。
// 检查与设置在同一临界区内完成，防止同一法术在冷却
// 生效前被并发请求触发两次。
type CooldownTracker struct {
	mutex   sync.Mutex
	expiry  map[int64]map[string]time.Time
	nowFunc func() time.Time
}

// NewCooldownTracker 创建冷却跟踪器
func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		expiry:  make(map[int64]map[string]time.Time),
		nowFunc: time.Now,
	}
}

// IsReady 检查法术是否已冷却完毕
func (t *CooldownTracker) IsReady(playerID int64, ability string) bool {
	return t.Remaining(playerID, ability) <= 0
}

// Remaining 返回剩余冷却时间，已就绪时返回0
func (t *CooldownTracker) Remaining(playerID int64, ability string) time.Duration {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	abilities, ok := t.expiry[playerID]
	if !ok {
		return 0
	}
	expireAt, ok := abilities[ability]
	if !ok {
		return 0
	}

	remaining := expireAt.Sub(t.nowFunc())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Arm 设置冷却：到期时刻 = 当前时间 + duration
func (t *CooldownTracker) Arm(playerID int64, ability string, duration time.Duration) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.arm(playerID, ability, duration)
}

// TryAcquire 原子地完成"检查+设置"：冷却就绪则立刻重新上膛并返回true，
// 否则返回false和剩余时间
func (t *CooldownTracker) TryAcquire(playerID int64, ability string, duration time.Duration) (bool, time.Duration) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if abilities, ok := t.expiry[playerID]; ok {
		if expireAt, ok := abilities[ability]; ok {
			remaining := expireAt.Sub(t.nowFunc())
			if remaining > 0 {
				return false, remaining
			}
		}
	}

	t.arm(playerID, ability, duration)
	return true, 0
}

// arm 调用方必须持有锁
func (t *CooldownTracker) arm(playerID int64, ability string, duration time.Duration) {
	abilities, ok := t.expiry[playerID]
	if !ok {
		abilities = make(map[string]time.Time)
		t.expiry[playerID] = abilities
	}
	abilities[ability] = t.nowFunc().Add(duration)
}
