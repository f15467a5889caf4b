package domain

import "time"

// DateRange 闭区间日期范围，构造时保证 start <= end
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange 创建日期范围，start 晚于 end 时返回 ErrInvalidDateRange
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.After(end) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{start: start, end: end}, nil
}

// LastDays 创建最近 N 天的范围
func LastDays(days int) DateRange {
	now := time.Now()
	return DateRange{start: now.AddDate(0, 0, -days), end: now}
}

// CurrentMonth 创建本月范围
func CurrentMonth() DateRange {
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return DateRange{start: first, end: last}
}

// Start 范围起点
func (r DateRange) Start() time.Time {
	return r.start
}

// End 范围终点
func (r DateRange) End() time.Time {
	return r.end
}

// Days 包含首尾的天数，start == end 时为 1
func (r DateRange) Days() int {
	startDay := time.Date(r.start.Year(), r.start.Month(), r.start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(r.end.Year(), r.end.Month(), r.end.Day(), 0, 0, 0, 0, time.UTC)
	return int(endDay.Sub(startDay).Hours()/24) + 1
}
