package repository

import "gorm.io/gorm"

// applyPagination 应用分页参数
// pageSize <= 0 表示调用方自行限制结果集（内部全量查询），不追加 LIMIT。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
