package publish_link

import (
	domain "github.com/Xeyame/sharry/internal/domain/publishlink"
)

func fromDBModel(model *PublishLink) *domain.PublishLink {
	var l = &domain.PublishLink{
		ShareID:  model.ShareID,
		PublicID: model.PublicID,

		Active:  model.Active,
		ReuseID: model.ReuseID,

		Views:       model.Views,
		PublishedAt: model.PublishedAt,
	}

	return l
}
