package shared

// AggregateRoot 聚合根接口
// 聚合根是一致性边界的唯一入口：
// 1. 有全局唯一标识
// 2. 维护聚合内部的不变量（猫与广告的归属、广告状态、优先级分数）
// 3. 聚合内实体的所有修改必须通过聚合根进行
// 4. 记录领域事件，由 UnitOfWork 在保存后拉取
type AggregateRoot interface {
	// ID 返回聚合根的全局唯一标识
	ID() string

	// Version 返回当前版本号，用于乐观锁并发控制
	Version() int

	// PullEvents 获取并清空聚合根记录的领域事件
	PullEvents() []DomainEvent
}

// Entity 实体接口
// 实体通过标识判断相等性（即使属性相同，ID不同就是不同的实体）
type Entity interface {
	ID() string
}

// ValueObject 值对象接口
// 值对象没有标识、不可变、按属性值判断相等性。
// Go 没有办法强制不可变，靠私有字段和只读方法保证。
type ValueObject[T any] interface {
	Equals(other T) bool
}
