package share

import (
	"time"

	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/domain/publishlink"
	"github.com/Xeyame/sharry/internal/domain/share"
	sfdto "github.com/Xeyame/sharry/internal/interface/api/rest/dto/share_file"
)

func ToResponseShare(sDomain share.Share) Share {
	var s = Share{
		ID:              sDomain.ID,
		AliasID:         sDomain.AliasID,
		Name:            sDomain.Name,
		Description:     sDomain.Description,
		ValiditySeconds: int64(sDomain.Validity / time.Second),
		MaxViews:        sDomain.MaxViews,
		HasPassword:     sDomain.HasPassword(),
		CreatedAt:       sDomain.CreatedAt,
	}

	return s
}

func ToResponseShares(ssDomain share.Shares) Shares {
	ss := make(Shares, len(ssDomain))
	for idx, s := range ssDomain {
		ss[idx] = ToResponseShare(*s)
	}

	return ss
}

func ToResponseLink(lDomain publishlink.PublishLink) PublishLink {
	var l = PublishLink{
		PublicID:    lDomain.PublicID,
		Active:      lDomain.Active,
		ReuseID:     lDomain.ReuseID,
		Views:       lDomain.Views,
		PublishedAt: lDomain.PublishedAt,
	}

	return l
}

func ToResponseDetails(dDomain ports.ShareDetails) Details {
	d := Details{
		Share: ToResponseShare(*dDomain.Share),
		Files: sfdto.ToResponseShareFiles(dDomain.Files),
	}
	if dDomain.Link != nil {
		l := ToResponseLink(*dDomain.Link)
		d.Link = &l
	}

	return d
}

func ToCreateShareRequest(r CreateRequest) ports.CreateShareRequest {
	return ports.CreateShareRequest{
		Name:        r.Name,
		Description: r.Description,
		Validity:    time.Duration(r.ValiditySeconds) * time.Second,
		MaxViews:    r.MaxViews,
		Password:    r.Password,
	}
}

func ToNewFileRequest(r sfdto.NewFileRequest) ports.NewFileRequest {
	return ports.NewFileRequest{
		FileName:     r.FileName,
		MimeType:     r.MimeType,
		DeclaredSize: r.DeclaredSize,
	}
}
