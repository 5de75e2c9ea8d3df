package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrGenerationLocked 生成锁冲突：同一作用域已有生成批次在运行
var ErrGenerationLocked = errors.New("已有排班生成批次在运行，请稍后再试")
