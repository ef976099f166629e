package schema

import (
	"fmt"
	"sort"
)

// DefaultLevelThresholds 默认等级阈值表：第 i 项为达到 i+1 级所需的累计经验
var DefaultLevelThresholds = []int64{0, 50, 150, 300, 500, 750, 1050, 1400, 1800, 2250}

// LevelTable 经验 -> 等级映射（升序阈值表）
// 超过最后一个阈值后不再升级
type LevelTable struct {
	thresholds []int64
}

var defaultLevelTable = LevelTable{thresholds: DefaultLevelThresholds}

// DefaultLevelTable 返回默认阈值表
func DefaultLevelTable() LevelTable {
	return defaultLevelTable
}

// NewLevelTable 校验并构建阈值表：非空、首项为 0、严格递增
func NewLevelTable(thresholds []int64) (LevelTable, error) {
	if len(thresholds) == 0 {
		return LevelTable{}, fmt.Errorf("等级阈值表不能为空")
	}
	if thresholds[0] != 0 {
		return LevelTable{}, fmt.Errorf("首个等级阈值必须为 0，实际为 %d", thresholds[0])
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			return LevelTable{}, fmt.Errorf("等级阈值必须严格递增: T[%d]=%d <= T[%d]=%d", i+1, thresholds[i], i, thresholds[i-1])
		}
	}
	return LevelTable{thresholds: append([]int64(nil), thresholds...)}, nil
}

// LevelFor 返回满足 xp >= T[i] 的最大 i（从 1 开始）；xp 低于 T[1] 时返回 1
func (t LevelTable) LevelFor(xp int64) int {
	th := t.table()
	// 第一个 > xp 的下标即为满足条件的阈值个数
	n := sort.Search(len(th), func(i int) bool { return th[i] > xp })
	if n < 1 {
		return 1
	}
	return n
}

// MaxLevel 最高等级
func (t LevelTable) MaxLevel() int {
	return len(t.table())
}

// XPToNext 距离下一级还差多少经验，满级返回 0
func (t LevelTable) XPToNext(xp int64) int64 {
	th := t.table()
	level := t.LevelFor(xp)
	if level >= len(th) {
		return 0
	}
	return th[level] - xp
}

// Thresholds 返回阈值表副本
func (t LevelTable) Thresholds() []int64 {
	return append([]int64(nil), t.table()...)
}

func (t LevelTable) table() []int64 {
	if len(t.thresholds) == 0 {
		return DefaultLevelThresholds
	}
	return t.thresholds
}

// LevelFor 使用默认阈值表计算等级
func LevelFor(xp int64) int {
	return defaultLevelTable.LevelFor(xp)
}
