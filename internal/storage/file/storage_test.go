package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rustdonate/internal/model"
)

type StorageSuite struct {
	suite.Suite
	path    string
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "nested", "state.json")
	s.storage = New(s.path)
	s.ctx = context.Background()
}

func (s *StorageSuite) TestGetIdentityWithoutFile() {
	_, err := s.storage.GetIdentity(s.ctx)
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

func (s *StorageSuite) TestSaveAndGetIdentity() {
	identity := &model.Identity{ExternalID: "76561198000000000", DisplayName: "Alice", AvatarURL: "https://a"}

	s.Require().NoError(s.storage.SaveIdentity(s.ctx, identity))

	retrieved, err := s.storage.GetIdentity(s.ctx)
	s.Require().NoError(err)
	s.Equal(identity, retrieved)
}

func (s *StorageSuite) TestRecordSurvivesNewInstance() {
	identity := &model.Identity{ExternalID: "id-1", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SaveIdentity(s.ctx, identity))

	reopened := New(s.path)
	retrieved, err := reopened.GetIdentity(s.ctx)
	s.Require().NoError(err)
	s.Equal(identity, retrieved)
}

func (s *StorageSuite) TestFileLayout() {
	s.Require().NoError(s.storage.SaveIdentity(s.ctx, &model.Identity{ExternalID: "id-1", DisplayName: "A", AvatarURL: "b"}))

	data, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	s.JSONEq(`{"rust_donate_user":{"steamId":"id-1","username":"A","avatar":"b"}}`, string(data))

	info, err := os.Stat(s.path)
	s.Require().NoError(err)
	s.Equal(os.FileMode(0o600), info.Mode().Perm())
}

func (s *StorageSuite) TestCorruptFileIsMalformedRecord() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0o700))
	s.Require().NoError(os.WriteFile(s.path, []byte("{{{"), 0o600))

	_, err := s.storage.GetIdentity(s.ctx)
	s.ErrorIs(err, model.ErrCorruptIdentityRecord)
}

func (s *StorageSuite) TestSaveOverwritesCorruptFile() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0o700))
	s.Require().NoError(os.WriteFile(s.path, []byte("{{{"), 0o600))

	s.Require().NoError(s.storage.SaveIdentity(s.ctx, &model.Identity{ExternalID: "id-2"}))

	retrieved, err := s.storage.GetIdentity(s.ctx)
	s.Require().NoError(err)
	s.Equal("id-2", retrieved.ExternalID)
}

func (s *StorageSuite) TestDeleteIdentity() {
	s.Require().NoError(s.storage.SaveIdentity(s.ctx, &model.Identity{ExternalID: "id-1"}))

	s.Require().NoError(s.storage.DeleteIdentity(s.ctx))

	_, err := s.storage.GetIdentity(s.ctx)
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

func (s *StorageSuite) TestDeleteWithoutFileIsNoop() {
	s.NoError(s.storage.DeleteIdentity(s.ctx))
	_, err := os.Stat(s.path)
	s.True(os.IsNotExist(err))
}

func (s *StorageSuite) TestDeleteCorruptFileRemovesIt() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0o700))
	s.Require().NoError(os.WriteFile(s.path, []byte("nope"), 0o600))

	s.Require().NoError(s.storage.DeleteIdentity(s.ctx))

	_, err := s.storage.GetIdentity(s.ctx)
	s.ErrorIs(err, model.ErrIdentityNotFound)
}
