package service

import "math"

// PageRequest 页码从 1 开始；Limit 由调用方按配置裁剪
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) normalized() PageRequest {
	if p.Limit < 1 {
		p.Limit = 6
	}
	if p.Page < 1 {
		p.Page = 1
	}
	// (Page-1)*Limit 不能溢出
	if maxPage := math.MaxInt / p.Limit; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

func (p PageRequest) Offset() int {
	n := p.normalized()
	return (n.Page - 1) * n.Limit
}

// Page 一页结果与总数
type Page[T any] struct {
	Items []T
	Total int64
	PageRequest
}

// HasNext 是否还有下一页
func (p Page[T]) HasNext() bool {
	return int64(p.Offset()+len(p.Items)) < p.Total
}

func (p Page[T]) HasPrevious() bool {
	return p.normalized().Page > 1
}

// OutOfRange 第一页之后的空页，视为无效页码
func (p Page[T]) OutOfRange() bool {
	return p.normalized().Page > 1 && len(p.Items) == 0
}
