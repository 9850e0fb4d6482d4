// Copyright 2024-2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/Vasilyeu/hedge-simulator/common"
)

var _ = Describe("Cache tests", func() {
	BeforeEach(func() {
		viper.Set("cache.local_size", 0)
		viper.Set("cache.redis_url", "")
	})

	Context("with no cache configuration at all", func() {
		It("still creates a working local cache", func() {
			common.SetupCache()

			Expect(common.CacheSet("greeting", []byte("hello"))).To(Succeed())
			val, err := common.CacheGet("greeting")
			Expect(err).To(BeNil())
			Expect(val).To(Equal([]byte("hello")))
		})

		It("misses on unknown keys", func() {
			common.SetupCache()

			val, err := common.CacheGet("never-stored")
			Expect(err).To(BeNil())
			Expect(val).To(BeEmpty())
		})
	})

	Context("with a redis URL configured", func() {
		It("enables the redis tier from the URL alone", func() {
			// nothing listens on port 1; the redis write must be attempted
			// and fail while the local tier still serves the value
			viper.Set("cache.redis_url", "redis://127.0.0.1:1")
			common.SetupCache()

			err := common.CacheSet("greeting", []byte("hello"))
			Expect(err).To(HaveOccurred())

			val, err := common.CacheGet("greeting")
			Expect(err).To(BeNil())
			Expect(val).To(Equal([]byte("hello")))
		})

		It("stays local-only when the URL is cleared again", func() {
			viper.Set("cache.redis_url", "redis://127.0.0.1:1")
			common.SetupCache()

			viper.Set("cache.redis_url", "")
			common.SetupCache()

			Expect(common.CacheSet("greeting", []byte("hello"))).To(Succeed())
		})
	})

	Context("with configured sizes", func() {
		It("honors a positive local size", func() {
			viper.Set("cache.local_size", 2)
			common.SetupCache()

			Expect(common.CacheSet("a", []byte("1"))).To(Succeed())
			Expect(common.CacheSet("b", []byte("2"))).To(Succeed())
			Expect(common.CacheSet("c", []byte("3"))).To(Succeed())

			// oldest entry was evicted
			val, err := common.CacheGet("a")
			Expect(err).To(BeNil())
			Expect(val).To(BeEmpty())

			val, err = common.CacheGet("c")
			Expect(err).To(BeNil())
			Expect(val).To(Equal([]byte("3")))
		})
	})
})
