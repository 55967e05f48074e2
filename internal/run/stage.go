package run

import (
	"fmt"
)

// Stage 表示审核流程的阶段
// 四个阶段严格线性推进，只有 Reset 可以回到起点
type Stage int

// 审核流程的四个阶段
const (
	StageUpload   Stage = iota // 上传数据文件
	StageMap                   // 绑定列到规范字段
	StageValidate              // 执行验证规则
	StageExport                // 导出结果
)

// stageNames 阶段的稳定字符串表示，用于API和日志
var stageNames = map[Stage]string{
	StageUpload:   "upload",
	StageMap:      "map",
	StageValidate: "validate",
	StageExport:   "export",
}

// String 返回阶段的字符串表示
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// ParseStage 将字符串解析为阶段
func ParseStage(name string) (Stage, error) {
	for stage, stageName := range stageNames {
		if stageName == name {
			return stage, nil
		}
	}
	return StageUpload, fmt.Errorf("未知的阶段 '%s'", name)
}

// MarshalJSON 将阶段序列化为字符串
func (s Stage) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON 从字符串反序列化阶段
func (s *Stage) UnmarshalJSON(data []byte) error {
	name := string(data)
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		name = name[1 : len(name)-1]
	}
	parsed, err := ParseStage(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// InvalidTransitionError 表示非法的阶段跳转
// 阶段只能原地重入或前进一步，状态保持不变
type InvalidTransitionError struct {
	From Stage
	To   Stage
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("不能从阶段 '%s' 跳转到 '%s'", e.From, e.To)
}

// ExportBlockedError 表示导出被blocker级问题阻止
// 携带当前blocker数量供展示层使用
type ExportBlockedError struct {
	Blockers int
}

func (e *ExportBlockedError) Error() string {
	return fmt.Sprintf("导出被阻止: 还有 %d 个blocker级问题未解决", e.Blockers)
}
