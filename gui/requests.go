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

package gui

// FeatureReq is used to request the setting of a presenter attribute. For
// example, the window title.
type FeatureReq string

// FeatureReqData represents the information associated with a FeatureReq. See
// commentary for the defined FeatureReq values for the underlying type.
type FeatureReqData any

// List of valid feature requests. The argument must be of the type specified
// or else SetFeature() will return an error.
//
// These are requests. A presenter that cannot satisfy a request returns
// ErrUnsupportedFeature.
const (
	// the window title.
	ReqSetTitle FeatureReq = "ReqSetTitle" // string

	// put the window into full-screen mode. the size of the drawing surface
	// will change and an EventResize sent.
	ReqFullScreen FeatureReq = "ReqFullScreen" // bool

	// toggle visibility of the window. presenters that are always visible
	// accept the request and do nothing.
	ReqSetVisibility FeatureReq = "ReqSetVisibility" // bool
)
