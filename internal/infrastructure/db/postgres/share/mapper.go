package share

import (
	"time"

	domain "github.com/Xeyame/sharry/internal/domain/share"
)

func fromDBModel(model *Share) *domain.Share {
	var s = &domain.Share{
		ID:        model.UUID,
		AccountID: model.AccountID,
		AliasID:   model.AliasID,

		Name:         model.Name,
		Description:  model.Description,
		Validity:     time.Duration(model.ValiditySecs) * time.Second,
		MaxViews:     model.MaxViews,
		PasswordHash: model.PasswordHash,

		CreatedAt: model.CreatedAt,
	}

	return s
}

func fromDBModels(models *Shares) domain.Shares {
	shs := make(domain.Shares, len(*models))
	for idx, s := range *models {
		shs[idx] = fromDBModel(s)
	}

	return shs
}
