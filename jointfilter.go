package animcore

import (
	"log"
	"regexp"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// JointFilter represents a chain of filters, executed in sequence to collect the desired Joints out of a Joint's
// subtree. The filters are executed lazily when one of the finishing functions (First, Slice, Count, ForEach, ...) is
// called. A JointFilter is a value; every filtering function returns a modified copy.
type JointFilter struct {
	Filters        []func(*Joint) bool // The filters currently active on the JointFilter.
	Start          *Joint              // The start (root) of the filter. It is never included in the results.
	MaxDepth       int                 // How deep below Start to search; a value less than zero means the entire tree is traversed.
	stopOnFiltered bool                // If a Joint's children should be skipped when the Joint itself doesn't pass the filters.
	depth          int
	sortByDistance bool
	reverseSort    bool
	sortTo         mgl64.Vec3
}

func newJointFilter(start *Joint) JointFilter {
	return JointFilter{
		Start:    start,
		depth:    -1,
		MaxDepth: -1,
	}
}

func (jf *JointFilter) passes(joint *Joint) bool {
	for _, filter := range jf.Filters {
		if !filter(joint) {
			return false
		}
	}
	return true
}

func (jf *JointFilter) execute(joint *Joint) []*Joint {

	jf.depth++

	out := []*Joint{}
	added := true

	if joint != jf.Start {
		added = jf.passes(joint)
		if added {
			out = append(out, joint)
		}
	}

	if jf.MaxDepth < 0 || jf.depth <= jf.MaxDepth {
		if !jf.stopOnFiltered || added {
			for _, child := range joint.children {
				out = append(out, jf.execute(child)...)
			}
		}
	}

	jf.depth--

	if jf.depth == -1 && jf.sortByDistance {

		distances := make(map[*Joint]float64, len(out))
		for _, j := range out {
			distances[j] = j.GlobalTransform().Col(3).Vec3().Sub(jf.sortTo).LenSqr()
		}

		sort.SliceStable(out, func(i, j int) bool {
			if jf.reverseSort {
				return distances[out[i]] > distances[out[j]]
			}
			return distances[out[i]] < distances[out[j]]
		})

	}

	return out

}

func (jf *JointFilter) executeFilters(joint *Joint, callback func(*Joint) bool) bool {

	if jf.depth < 0 && jf.sortByDistance {
		log.Printf("Warning: JointFilter executing on Joint < %s > has sorting on it, but ForEach() cannot be used with sorting.\n", jf.Start.Name)
	}

	jf.depth++

	passed := true

	if joint != jf.Start {
		passed = jf.passes(joint)
		if passed && !callback(joint) {
			jf.depth--
			return false
		}
	}

	if jf.MaxDepth < 0 || jf.depth <= jf.MaxDepth {
		if !jf.stopOnFiltered || passed {
			for _, child := range joint.children {
				if !jf.executeFilters(child, callback) {
					jf.depth--
					return false
				}
			}
		}
	}

	jf.depth--

	return true

}

// ByFunc filters the Joints by the provided function, which returns true for every Joint that should pass.
func (jf JointFilter) ByFunc(filterFunc func(joint *Joint) bool) JointFilter {
	jf.Filters = append(jf.Filters, filterFunc)
	return jf
}

// ByName filters the Joints by their names, which must be wholly equal to the name provided.
func (jf JointFilter) ByName(name string) JointFilter {
	jf.Filters = append(jf.Filters, func(joint *Joint) bool { return joint.Name == name })
	return jf
}

// ByRegex filters the Joints by their names using the given regex string. If the regex string is invalid, no Joint
// passes.
func (jf JointFilter) ByRegex(regexString string) JointFilter {
	re, err := regexp.Compile(regexString)
	jf.Filters = append(jf.Filters, func(joint *Joint) bool {
		return err == nil && re.MatchString(joint.Name)
	})
	return jf
}

// ByProps filters the Joints to the ones having properties by all of the names provided.
func (jf JointFilter) ByProps(propNames ...string) JointFilter {
	jf.Filters = append(jf.Filters, func(joint *Joint) bool {
		return joint.props.Has(propNames...)
	})
	return jf
}

// ByProp filters the Joints to the ones having a property with the given name and value.
func (jf JointFilter) ByProp(propName string, propValue any) JointFilter {
	jf.Filters = append(jf.Filters, func(joint *Joint) bool {
		prop, ok := joint.props.Lookup(propName)
		return ok && prop.Value == propValue
	})
	return jf
}

// ByPropNameRegex filters the Joints to the ones having any property whose name matches one of the given regex strings.
func (jf JointFilter) ByPropNameRegex(propNameRegexStrings ...string) JointFilter {

	regexes := make([]*regexp.Regexp, 0, len(propNameRegexStrings))
	for _, s := range propNameRegexStrings {
		if re, err := regexp.Compile(s); err == nil {
			regexes = append(regexes, re)
		}
	}

	jf.Filters = append(jf.Filters, func(joint *Joint) bool {
		for _, re := range regexes {
			for _, name := range joint.props.Names() {
				if re.MatchString(name) {
					return true
				}
			}
		}
		return false
	})

	return jf

}

// ByParentProps filters the Joints to the ones whose parent has properties by all of the names provided.
func (jf JointFilter) ByParentProps(propNames ...string) JointFilter {
	jf.Filters = append(jf.Filters, func(joint *Joint) bool {
		return joint.parent != nil && joint.parent.props.Has(propNames...)
	})
	return jf
}

// Not filters OUT the given Joints.
func (jf JointFilter) Not(others ...*Joint) JointFilter {
	jf.Filters = append(jf.Filters, func(joint *Joint) bool {
		for _, other := range others {
			if joint == other {
				return false
			}
		}
		return true
	})
	return jf
}

// StopOnFiltered makes the filter skip the children of any Joint that doesn't pass the filter.
func (jf JointFilter) StopOnFiltered() JointFilter {
	jf.stopOnFiltered = true
	return jf
}

// SetMaxDepth sets the maximum search depth of the JointFilter. A depth of 0 only searches the Start Joint's children.
func (jf JointFilter) SetMaxDepth(depth int) JointFilter {
	jf.MaxDepth = depth
	return jf
}

// SortByDistance sorts the results by the distance of the Joints' global positions to the given point.
func (jf JointFilter) SortByDistance(to mgl64.Vec3) JointFilter {
	jf.sortByDistance = true
	jf.sortTo = to
	return jf
}

// SortReverse reverses any sorting performed on the JointFilter.
func (jf JointFilter) SortReverse() JointFilter {
	jf.reverseSort = true
	return jf
}

// ForEach executes the provided function on each filtered Joint without allocating a slice for the results. The
// function returns whether to continue (true) or not (false).
// ForEach does not work with sorting, and will log a warning if you use sorting and ForEach on the same filter.
func (jf JointFilter) ForEach(callback func(joint *Joint) bool) {
	jf.executeFilters(jf.Start, callback)
}

// First returns the first Joint in the JointFilter; if the JointFilter is empty, this function returns nil.
func (jf JointFilter) First() *Joint {
	if jf.sortByDistance {
		out := jf.execute(jf.Start)
		if len(out) == 0 {
			return nil
		}
		return out[0]
	}
	var result *Joint
	jf.ForEach(func(joint *Joint) bool { result = joint; return false })
	return result
}

// Last returns the last Joint in the JointFilter; if the JointFilter is empty, this function returns nil.
func (jf JointFilter) Last() *Joint {
	out := jf.execute(jf.Start)
	if len(out) == 0 {
		return nil
	}
	return out[len(out)-1]
}

// Get returns the Joint at the given index in the JointFilter, or nil if the index is out of range.
func (jf JointFilter) Get(index int) *Joint {
	out := jf.execute(jf.Start)
	if index < 0 || index >= len(out) {
		return nil
	}
	return out[index]
}

// Count returns the number of Joints that pass the filter.
func (jf JointFilter) Count() int {
	count := 0
	jf.executeFilters(jf.Start, func(*Joint) bool {
		count++
		return true
	})
	return count
}

// Index returns the index of the given Joint in the filter results, or -1 if it isn't part of them.
func (jf JointFilter) Index(joint *Joint) int {
	for index, j := range jf.execute(jf.Start) {
		if j == joint {
			return index
		}
	}
	return -1
}

// Contains returns true if the given Joint passes the filter.
func (jf JointFilter) Contains(joint *Joint) bool {
	return jf.Index(joint) >= 0
}

// IsEmpty returns true if no Joint passes the filter.
func (jf JointFilter) IsEmpty() bool {
	return jf.First() == nil
}

// Slice returns the filter results as a slice of Joints.
func (jf JointFilter) Slice() []*Joint {
	return jf.execute(jf.Start)
}
