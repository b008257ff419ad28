package evexml

import (
	"context"
	"time"
)

// Certificate is one entry of the certificate tree, a lookup-table kind.
// Certificates nest three levels deep in the tree, category then class then
// grade; the flattened ancestry is folded into each certificate's fields.
type Certificate struct {
	rec    record
	client *Client
	cred   *Credential
}

// Certificate returns a lazy handle on the certificate with the given id.
func (c *Client) Certificate(id int64) *Certificate {
	return c.newCertificate(nil, id, "")
}

// CertificateNamed returns a lazy handle resolved by case-insensitive match
// on the certificate's class name. Grades of one class share that name, so
// the match lands on the lowest certificate id, the lowest grade.
func (c *Client) CertificateNamed(name string) *Certificate {
	return c.newCertificate(nil, 0, name)
}

func (c *Client) newCertificate(cred *Credential, id int64, name string) *Certificate {
	cert := &Certificate{client: c, cred: cred}
	cert.rec.init(KindCertificate, id, name, c.caches.table(KindCertificate), nil)
	cert.rec.resolve = cert.resolveFields
	return cert
}

func (cert *Certificate) resolveFields(ctx context.Context) (int64, fieldSet, error) {
	if err := cert.client.ensureCertificates(ctx, cert.cred); err != nil {
		return 0, nil, err
	}
	return adoptFromCollection(&cert.client.certificates, cert.client.caches.table(KindCertificate), cert.rec.id, cert.rec.name)
}

// ensureCertificates loads the certificate tree at most once per Client.
// The tree endpoint is public, so any credential is stripped on the wire.
func (c *Client) ensureCertificates(ctx context.Context, cred *Credential) error {
	return c.certificates.ensure(ctx, func(ctx context.Context) ([]int64, error) {
		return c.loadCertificates(ctx, cred)
	})
}

// loadCertificates fetches the tree and merges every certificate into the
// identity cache.
func (c *Client) loadCertificates(ctx context.Context, cred *Credential) ([]int64, error) {
	res, err := c.disp.Call(ctx, EndpointCertificateTree, nil, cred)
	if err != nil {
		return nil, err
	}

	cache := c.caches.table(KindCertificate)
	cachedUntil := ""
	if !res.CachedUntil.IsZero() {
		cachedUntil = formatEveTime(res.CachedUntil)
	}

	var ids []int64
	for _, category := range res.Rows("categories") {
		categoryID := attr(category, "categoryID")
		categoryName := attr(category, "categoryName")
		for _, class := range category.Nodes("rowset[@name='classes']/row") {
			classID := attr(class, "classID")
			className := attr(class, "className")
			for _, row := range class.Nodes("rowset[@name='certificates']/row") {
				id := attrInt(row, "certificateID")
				if id == 0 {
					continue
				}
				fields := fieldSet{
					"name":         className,
					"classID":      classID,
					"className":    className,
					"categoryID":   categoryID,
					"categoryName": categoryName,
				}
				if v, ok := row.Attr("grade"); ok {
					fields["grade"] = v
				}
				if v, ok := row.Attr("corporationID"); ok {
					fields["corporationID"] = v
				}
				if v, ok := row.Attr("description"); ok {
					fields["description"] = v
				}
				if cachedUntil != "" {
					fields["cachedUntil"] = cachedUntil
				}
				cache.merge(id, fields)
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// Certificates returns every certificate in the tree, ascending by id.
func (c *Client) Certificates(ctx context.Context) ([]*Certificate, error) {
	if err := c.ensureCertificates(ctx, nil); err != nil {
		return nil, err
	}
	ids := c.certificates.snapshot()
	out := make([]*Certificate, len(ids))
	for i, id := range ids {
		out[i] = c.newCertificate(nil, id, "")
	}
	return out, nil
}

// Field returns the raw value of any resolved field by canonical name.
func (cert *Certificate) Field(ctx context.Context, name string) (string, bool, error) {
	return cert.rec.Field(ctx, name)
}

// Resolved reports whether the certificate has been resolved.
func (cert *Certificate) Resolved() bool { return cert.rec.Resolved() }

// ID returns the certificate's id, forcing a tree load for name-keyed
// handles. 0 means the name matched nothing.
func (cert *Certificate) ID(ctx context.Context) (int64, error) {
	return cert.rec.ID(ctx)
}

// CachedUntil returns the server-side cache expiry of the tree data.
func (cert *Certificate) CachedUntil(ctx context.Context) (time.Time, error) {
	return cert.rec.CachedUntil(ctx)
}

// Name returns the certificate's class name.
func (cert *Certificate) Name(ctx context.Context) (string, error) {
	return cert.rec.strField(ctx, "name")
}

// Grade returns the certificate's grade, 1 for basic through 5 for elite.
func (cert *Certificate) Grade(ctx context.Context) (int64, error) {
	return cert.rec.intField(ctx, "grade")
}

// Description returns the certificate's description.
func (cert *Certificate) Description(ctx context.Context) (string, error) {
	return cert.rec.strField(ctx, "description")
}

// ClassID returns the id of the certificate's class.
func (cert *Certificate) ClassID(ctx context.Context) (int64, error) {
	return cert.rec.intField(ctx, "classID")
}

// CategoryID returns the id of the certificate's category.
func (cert *Certificate) CategoryID(ctx context.Context) (int64, error) {
	return cert.rec.intField(ctx, "categoryID")
}

// CategoryName returns the name of the certificate's category.
func (cert *Certificate) CategoryName(ctx context.Context) (string, error) {
	return cert.rec.strField(ctx, "categoryName")
}

// CorporationID returns the id of the corporation that issues the
// certificate.
func (cert *Certificate) CorporationID(ctx context.Context) (int64, error) {
	return cert.rec.intField(ctx, "corporationID")
}

// Corporation returns the issuing corporation as a lazy handle carrying
// this certificate's credential context, or nil when the tree lists none.
func (cert *Certificate) Corporation(ctx context.Context) (*Corporation, error) {
	id, err := cert.rec.intField(ctx, "corporationID")
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	return cert.client.newCorporation(cert.cred, id, nil), nil
}
