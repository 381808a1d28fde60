package fdtd_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFDTD(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "FDTD Suite")
}
