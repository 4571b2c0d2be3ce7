package gcs_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsouza/fake-gcs-server/fakestorage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/untracker/src/extractor/internal/lib/storagepath"
	"github.com/veedubyou/untracker/src/extractor/internal/orchestrator"
	"github.com/veedubyou/untracker/src/extractor/internal/sink/gcs"
	"github.com/veedubyou/untracker/src/extractor/internal/sink/gcs/gcsfakes"
	. "github.com/veedubyou/untracker/src/shared/testing"
)

var _ = Describe("Sink", func() {
	var (
		ctx      context.Context
		dir      string
		artifact orchestrator.Artifact
		urls     storagepath.RemoteGenerator
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = ExpectSuccess(os.MkdirTemp("", "untracker-gcs"))
		DeferCleanup(os.RemoveAll, dir)

		path := filepath.Join(dir, "song_instrument_001.wav")
		Expect(os.WriteFile(path, []byte("RIFF pretend audio"), 0644)).To(Succeed())

		artifact = orchestrator.Artifact{
			RunID: "run-1",
			Kind:  "instrument",
			Index: 1,
			Path:  path,
		}
		urls = storagepath.RemoteGenerator{Host: "http://storage.test", Bucket: "stems"}
	})

	It("names objects by run and file", func() {
		Expect(gcs.ObjectName("run-1", "/tmp/out/song_sample_002.flac")).To(Equal("run-1/song_sample_002.flac"))
	})

	Describe("With a fake store", func() {
		var store *gcsfakes.FakeFileStore

		BeforeEach(func() {
			store = &gcsfakes.FakeFileStore{}
		})

		It("uploads the artifact", func() {
			Expect(gcs.NewSink(store, urls).Accept(ctx, artifact)).To(Succeed())
			Expect(store.UploadFileCallCount()).To(Equal(1))

			_, localPath, objectName := store.UploadFileArgsForCall(0)
			Expect(localPath).To(Equal(artifact.Path))
			Expect(objectName).To(Equal("run-1/song_instrument_001.wav"))
		})

		It("fails the artifact when the upload fails", func() {
			uploadErr := errors.New("bucket gone")
			store.UploadFileReturns(uploadErr)

			err := gcs.NewSink(store, urls).Accept(ctx, artifact)
			Expect(errors.Is(err, uploadErr)).To(BeTrue())
		})
	})

	Describe("With a cloud storage emulator", func() {
		var (
			server *fakestorage.Server
			store  gcs.GoogleFileStore
		)

		BeforeEach(func() {
			fakeServer, cloudConfig := NewFakeCloudStorage("stems")
			server = fakeServer
			DeferCleanup(server.Stop)

			store = ExpectSuccess(gcs.NewGoogleFileStore(ctx, cloudConfig.GetBucket(), cloudConfig.ClientOptions()...))
			DeferCleanup(store.Close)
		})

		It("stores the file under the run", func() {
			Expect(gcs.NewSink(store, urls).Accept(ctx, artifact)).To(Succeed())

			object := ExpectSuccess(server.GetObject("stems", "run-1/song_instrument_001.wav"))
			Expect(string(object.Content)).To(Equal("RIFF pretend audio"))
		})

		It("fails for a missing local file", func() {
			artifact.Path = filepath.Join(dir, "missing.wav")

			Expect(gcs.NewSink(store, urls).Accept(ctx, artifact)).NotTo(Succeed())

			_, err := server.GetObject("stems", "run-1/missing.wav")
			Expect(err).To(HaveOccurred())
		})
	})
})
