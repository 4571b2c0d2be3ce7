package testing

import (
	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/onsi/gomega"
	"github.com/veedubyou/untracker/src/shared/config"
)

// NewFakeCloudStorage starts an in-process GCS emulator holding one empty
// bucket and returns it with a config pointing at it.
func NewFakeCloudStorage(bucketName string) (*fakestorage.Server, config.LocalCloudStorage) {
	server, err := fakestorage.NewServerWithOptions(fakestorage.Options{
		Scheme:     "http",
		Host:       "127.0.0.1",
		Port:       0,
		NoListener: false,
	})
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())

	server.CreateBucketWithOpts(fakestorage.CreateBucketOpts{Name: bucketName})

	return server, config.LocalCloudStorage{
		StorageHost:  server.URL(),
		HostEndpoint: server.URL() + "/storage/v1",
		BucketName:   bucketName,
	}
}
