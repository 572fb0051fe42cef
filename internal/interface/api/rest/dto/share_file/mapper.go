package share_file

import (
	"github.com/Xeyame/sharry/internal/domain/sharefile"
)

func ToResponseShareFile(fDomain sharefile.ShareFile) ShareFile {
	var f = ShareFile{
		ID:           fDomain.ID,
		FileName:     fDomain.FileName,
		MimeType:     fDomain.MimeType,
		DeclaredSize: fDomain.DeclaredSize,
		RealSize:     fDomain.RealSize,
		CreatedAt:    fDomain.CreatedAt,
	}

	return f
}

func ToResponseShareFiles(fsDomain sharefile.ShareFiles) ShareFiles {
	fs := make(ShareFiles, len(fsDomain))
	for idx, f := range fsDomain {
		fs[idx] = ToResponseShareFile(*f)
	}

	return fs
}
