package validation

// Severity 表示验证问题的严重级别
type Severity string

// 支持的严重级别
// blocker 会阻止导出，warning 和 info 不影响导出
const (
	SeverityBlocker Severity = "blocker" // 必须解决才能导出
	SeverityWarning Severity = "warning" // 建议核查，不阻止导出
	SeverityInfo    Severity = "info"    // 提示信息
)

// Issue 表示一次验证中发现的单个问题
// 每次验证都会生成全新的问题列表，完全替换上一次的结果
type Issue struct {
	ID          string   `json:"id"`                // 问题标识，单次验证内唯一
	Severity    Severity `json:"severity"`          // 严重级别，由规则类型固定决定
	Row         int      `json:"row"`               // 问题所在样本行，0表示模式级问题
	Column      string   `json:"column"`            // 相关列名或字段名
	RuleID      string   `json:"ruleId"`            // 触发的规则标识
	Description string   `json:"description"`       // 问题描述
	Context     string   `json:"context,omitempty"` // 修复建议
}

// Result 表示一次完整验证的结果
// 计数始终等于对应级别问题的数量，由 Recount 统一计算
type Result struct {
	BlockerCount int     `json:"blockerCount"` // blocker级问题数量
	WarningCount int     `json:"warningCount"` // warning级问题数量
	InfoCount    int     `json:"infoCount"`    // info级问题数量
	Issues       []Issue `json:"issues"`       // 按规则声明顺序排列的问题列表
}

// NewResult 根据问题列表构造验证结果
// 计数通过单次遍历问题列表得出，不做增量维护
func NewResult(issues []Issue) Result {
	result := Result{Issues: issues}
	if result.Issues == nil {
		result.Issues = []Issue{}
	}
	result.Recount()
	return result
}

// Recount 重新统计各级别问题数量
func (r *Result) Recount() {
	r.BlockerCount = 0
	r.WarningCount = 0
	r.InfoCount = 0
	for _, issue := range r.Issues {
		switch issue.Severity {
		case SeverityBlocker:
			r.BlockerCount++
		case SeverityWarning:
			r.WarningCount++
		case SeverityInfo:
			r.InfoCount++
		}
	}
}

// Ready 判断结果是否允许导出
// 只要不存在blocker级问题即可导出
func (r *Result) Ready() bool {
	return r.BlockerCount == 0
}
