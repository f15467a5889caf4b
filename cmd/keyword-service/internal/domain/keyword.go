package domain

import "time"

// Keyword 商品关键词
type Keyword struct {
	ID          string
	Keyword     string  // 关键词文本，全局唯一
	ParentID    *string // 父级关键词ID，nil 表示根节点
	Weight      float64
	Valid       bool
	Recommend   bool
	Description string
	Thumb       string // 缩略图
	CreatedBy   string
	UpdatedBy   string
	CreateTime  time.Time
	UpdateTime  time.Time
}

// KeywordInput 关键词创建/更新输入
type KeywordInput struct {
	Keyword     string
	Weight      float64
	ParentID    *string
	Valid       bool
	Recommend   bool
	Description string
	Thumb       string
	Operator    string // 操作人，写入审计字段
}

// 关联来源
const (
	SourceManual = "manual" // 手动添加
	SourceAuto   = "auto"   // 算法生成
	SourceImport = "import" // 批量导入
)

// ProductKeyword 商品-关键词关联
type ProductKeyword struct {
	ID         string
	SpuID      string // 外部商品ID，不做解析
	KeywordID  string
	Weight     float64
	Source     string
	CreatedBy  string
	UpdatedBy  string
	CreateTime time.Time
	UpdateTime time.Time
}

// ProductKeywordInput 批量挂接输入项
type ProductKeywordInput struct {
	KeywordID string
	Weight    float64
	Source    string
}

// ProductWeight 关键词检索结果项
type ProductWeight struct {
	ProductID string  `json:"product_id"`
	Weight    float64 `json:"weight"`
}

// KeywordSearchCriteria 关键词查询条件，nil 字段不参与过滤
type KeywordSearchCriteria struct {
	Keyword   *string // 模糊匹配
	ParentID  *string
	Valid     *bool
	Recommend *bool
	MinWeight *float64
	MaxWeight *float64
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
}
