package viewset

// ViewKind 通用视图类型
type ViewKind int

const (
	Index ViewKind = iota
	IndexResults
	Add
	Edit
	Delete
)

// AllKinds 按注册顺序列出所有视图类型
var AllKinds = []ViewKind{Index, IndexResults, Add, Edit, Delete}

// String 返回 URL 中使用的视图名，如 index、add
func (k ViewKind) String() string {
	switch k {
	case Index:
		return "index"
	case IndexResults:
		return "index_results"
	case Add:
		return "add"
	case Edit:
		return "edit"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// templateName 自定义模板前缀下探测使用的文件名（不含扩展名）
func (k ViewKind) templateName() string {
	switch k {
	case Add:
		return "create"
	case Delete:
		return "confirm_delete"
	default:
		return k.String()
	}
}

// genericName wagtailadmin/generic 目录下的默认模板名
func (k ViewKind) genericName() string {
	if k == IndexResults {
		return "listing_results"
	}
	return k.templateName()
}

// ParseViewKind 解析视图名，未知名称返回 false
func ParseViewKind(s string) (ViewKind, bool) {
	for _, k := range AllKinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// NeedsObject 该视图是否需要主键参数
func (k ViewKind) NeedsObject() bool {
	return k == Edit || k == Delete
}
