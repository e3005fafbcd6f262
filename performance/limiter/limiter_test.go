// This file is part of Letterbox.
//
// Letterbox is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Letterbox is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Letterbox.  If not, see <https://www.gnu.org/licenses/>.

package limiter_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/letterbox/performance/limiter"
	"github.com/jetsetilly/letterbox/test"
)

func TestLimiter(t *testing.T) {
	lim, err := limiter.NewFPSLimiter(50)
	test.DemandSuccess(t, err)
	defer lim.Stop()

	test.ExpectEquality(t, lim.Limit(), 50)

	// ten ticks at 50fps should take at least 160ms. the first tick is
	// immediate so only nine intervals are measured. leave plenty of room
	// for timing inaccuracy
	start := time.Now()
	for i := 0; i < 10; i++ {
		lim.Wait()
	}
	test.ExpectSuccess(t, time.Since(start) >= 120*time.Millisecond)
}

func TestLimiterUnlimited(t *testing.T) {
	lim, err := limiter.NewFPSLimiter(0)
	test.DemandSuccess(t, err)
	defer lim.Stop()

	start := time.Now()
	for i := 0; i < 1000; i++ {
		lim.Wait()
	}
	test.ExpectSuccess(t, time.Since(start) < time.Second)
	test.ExpectSuccess(t, lim.HasWaited())
}

func TestLimiterInvalid(t *testing.T) {
	_, err := limiter.NewFPSLimiter(-1)
	test.ExpectFailure(t, err)

	lim, err := limiter.NewFPSLimiter(10)
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, lim.SetLimit(-10))
	test.ExpectEquality(t, lim.Limit(), 10)

	// wait returns immediately once stopped
	lim.Stop()
	lim.Wait()
}
