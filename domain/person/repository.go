package person

import (
	"context"
	"time"

	"rehoming/domain/shared"
)

// Repository 人员聚合仓储接口，整体加载、整体保存
type Repository interface {
	// Save 新聚合插入，已有聚合按 version 乐观锁更新，并同步猫和广告子表
	// 事件由 UoW 收集写入 outbox，仓储不处理
	Save(ctx context.Context, person *Person) error

	// FindByID 未找到时返回 ErrPersonNotFound
	FindByID(ctx context.Context, id string) (*Person, error)

	// FindBySpecification 按规约查询，仓储实现负责把规约翻译成查询条件
	FindBySpecification(ctx context.Context, spec shared.Specification[*Person]) ([]*Person, error)

	// FindIDsWithAdvertisementsDueForExpiry 拥有已到期 Active 广告的人员 ID，最多 limit 个
	FindIDsWithAdvertisementsDueForExpiry(ctx context.Context, now time.Time, limit int) ([]string, error)
}
