package share_file

import (
	"github.com/Xeyame/sharry/internal/domain/blob"
	domain "github.com/Xeyame/sharry/internal/domain/sharefile"
)

func fromDBModel(model *ShareFile) *domain.ShareFile {
	var f = &domain.ShareFile{
		ID:      model.UUID,
		ShareID: model.ShareID,
		BlobID:  blob.ID(model.BlobID),

		FileName:     model.FileName,
		MimeType:     model.MimeType,
		DeclaredSize: model.DeclaredSize,
		RealSize:     model.RealSize,

		CreatedAt: model.CreatedAt,
	}

	return f
}

func fromDBModels(models *ShareFiles) domain.ShareFiles {
	fls := make(domain.ShareFiles, len(*models))
	for idx, f := range *models {
		fls[idx] = fromDBModel(f)
	}

	return fls
}
