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

package hedge

import "time"

// NextFriday returns the next Friday strictly following dates that already
// fall on Friday through Sunday; Monday through Thursday roll forward to the
// Friday of the same week. Listed options expire on Fridays.
func NextFriday(dt time.Time) time.Time {
	// days since Monday
	dayOfWeek := (int(dt.Weekday()) + 6) % 7
	if dayOfWeek >= 4 {
		dayOfWeek -= 7
	}
	return dt.AddDate(0, 0, 4-dayOfWeek)
}
