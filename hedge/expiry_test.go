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

package hedge_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Vasilyeu/hedge-simulator/hedge"
)

var _ = Describe("Expiry tests", func() {
	DescribeTable("next Friday",
		func(input, expected time.Time) {
			Expect(hedge.NextFriday(input)).To(Equal(expected))
		},

		Entry("Monday rolls to the same week",
			time.Date(2021, 2, 1, 0, 0, 0, 0, tz()),
			time.Date(2021, 2, 5, 0, 0, 0, 0, tz())),
		Entry("Thursday rolls to the next day",
			time.Date(2021, 2, 4, 0, 0, 0, 0, tz()),
			time.Date(2021, 2, 5, 0, 0, 0, 0, tz())),
		Entry("Friday rolls a full week",
			time.Date(2021, 2, 5, 0, 0, 0, 0, tz()),
			time.Date(2021, 2, 12, 0, 0, 0, 0, tz())),
		Entry("Saturday rolls to the following Friday",
			time.Date(2021, 2, 6, 0, 0, 0, 0, tz()),
			time.Date(2021, 2, 12, 0, 0, 0, 0, tz())),
		Entry("Sunday rolls to the following Friday",
			time.Date(2021, 2, 7, 0, 0, 0, 0, tz()),
			time.Date(2021, 2, 12, 0, 0, 0, 0, tz())),
	)
})
