package repository

import (
	"errors"
	"strings"

	"github.com/abhishekrajput1235/ramaera-hosting-mono-repo/internal/models"

	"gorm.io/gorm"
)

// ServerRepository 服务器数据访问接口
type ServerRepository interface {
	GetByID(id uint) (*models.Server, error)
	Create(server *models.Server) error
	Update(server *models.Server) error
	List(filter ServerListFilter) ([]models.Server, int64, error)
}

// GormServerRepository GORM 服务器仓储
type GormServerRepository struct {
	db *gorm.DB
}

// NewServerRepository 创建服务器仓储
func NewServerRepository(db *gorm.DB) *GormServerRepository {
	return &GormServerRepository{db: db}
}

// GetByID 按ID获取服务器
func (r *GormServerRepository) GetByID(id uint) (*models.Server, error) {
	if id == 0 {
		return nil, nil
	}
	var server models.Server
	if err := r.db.Preload("Plan").First(&server, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &server, nil
}

// Create 创建服务器
func (r *GormServerRepository) Create(server *models.Server) error {
	return r.db.Create(server).Error
}

// Update 更新服务器
func (r *GormServerRepository) Update(server *models.Server) error {
	return r.db.Save(server).Error
}

// List 查询服务器列表
func (r *GormServerRepository) List(filter ServerListFilter) ([]models.Server, int64, error) {
	query := r.db.Model(&models.Server{}).Preload("Plan")
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.PlanID != 0 {
		query = query.Where("plan_id = ?", filter.PlanID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Server
	if err := query.Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
