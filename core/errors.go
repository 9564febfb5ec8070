package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 错误分类约定：
//   - NOT_FOUND：引用实体不存在（电影 / 用户）。推荐函数对"没有数据"
//     一律返回空结果或此错误，绝不 panic
//   - UNAVAILABLE：上游故障（分类器 / 存储连接失败）。原样向调用方传播，
//     核心层不做重试（重试属于边界协作方）
//   - 退化输入（全零查询、未知 mood、空候选集）不是错误：由各组件的
//     兜底值消化（0 分、默认查询向量、空列表）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "catalog", "graph"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError（支持 errors.As 解包），如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 上游服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore      = "store"      // KV 存储
	ModuleCatalog    = "catalog"    // 电影目录（文档存储）
	ModuleGraph      = "graph"      // 用户-电影交互图
	ModuleClassifier = "classifier" // 外部文本情绪分类器
	ModuleService    = "service"    // 服务编排
)

// 常用领域错误
var (
	// ErrMovieNotFound 表示引用的电影不存在
	ErrMovieNotFound = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: movie not found")

	// ErrUserNotFound 表示引用的用户不存在
	ErrUserNotFound = NewDomainError(ModuleGraph, ErrorCodeNotFound, "graph: user not found")

	// ErrNoAnalyses 是 Aggregator 的"无数据"信号，调用方据此走 genre 兜底
	ErrNoAnalyses = NewDomainError(ModuleService, ErrorCodeNotFound, "emotion: no text analyses to aggregate")
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED。
func IsNotSupported(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE（上游故障）。
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}
