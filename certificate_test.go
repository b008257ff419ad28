package evexml

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func certClient() (*Client, *fakeTransport) {
	ft := newFakeTransport()
	ft.stub(EndpointCertificateTree, envelope(certificateTreeXML))
	return NewClient(WithTransport(ft)), ft
}

func TestCertificatesTreeLoadsOnce(t *testing.T) {
	ctx := context.Background()
	client, ft := certClient()

	certs, err := client.Certificates(ctx)
	require.NoError(t, err)
	require.Len(t, certs, 4)

	ids := make([]int64, len(certs))
	for i, cert := range certs {
		ids[i], err = cert.ID(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, []int64{50, 51, 52, 57}, ids)

	grade, err := client.Certificate(52).Grade(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), grade)

	assert.Equal(t, 1, ft.count(EndpointCertificateTree))
}

func TestCertificateAncestryFoldedIn(t *testing.T) {
	ctx := context.Background()
	client, _ := certClient()

	cert := client.Certificate(57)
	name, err := cert.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Core Navigation", name)

	classID, err := cert.ClassID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), classID)

	categoryID, err := cert.CategoryID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), categoryID)

	categoryName, err := cert.CategoryName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Core", categoryName)

	grade, err := cert.Grade(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), grade)

	desc, err := cert.Description(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Basic navigation competence.", desc)

	corpID, err := cert.CorporationID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000125), corpID)
}

func TestCertificateNamedLowestGrade(t *testing.T) {
	ctx := context.Background()
	client, _ := certClient()

	// All grades of a class share its name; the match lands on the lowest
	// certificate id.
	cert := client.CertificateNamed("core fitting")
	id, err := cert.ID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), id)

	grade, err := cert.Grade(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), grade)
}

func TestCertificateNamedNoMatch(t *testing.T) {
	ctx := context.Background()
	client, _ := certClient()

	cert := client.CertificateNamed("Advanced Daydreaming")
	id, err := cert.ID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)
	assert.True(t, cert.Resolved())
}

func TestCertificateIssuingCorporation(t *testing.T) {
	ctx := context.Background()
	client, ft := certClient()

	corp, err := client.Certificate(50).Corporation(ctx)
	require.NoError(t, err)
	require.NotNil(t, corp)
	assert.Equal(t, int64(1000125), corp.ID())
	assert.Equal(t, 0, ft.count(EndpointCorporationSheet))
}
