package observe_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/computed-sortby/internal/testutils"
	"github.com/l7mp/computed-sortby/pkg/computed"
	"github.com/l7mp/computed-sortby/pkg/object"
	"github.com/l7mp/computed-sortby/pkg/observe"
)

func mustSortBy(sourceKey string, keys ...string) *computed.SortedView {
	v, err := computed.SortBy(sourceKey, keys...)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return v
}

var _ = Describe("SortBy on objects", func() {
	var (
		class *observe.Class
		obj   *observe.Object
		users *observe.List
	)

	BeforeEach(func() {
		class = observe.NewClass("users", observe.WithLogger(logger))
		Expect(class.Define("sortedFnameUsers", mustSortBy("users", "fname"))).To(Succeed())
		Expect(class.Define("sortedLnameUsers", mustSortBy("users", "lname:desc"))).To(Succeed())
		lnameAsc, err := computed.SortByList("users", "lname:asc")
		Expect(err).NotTo(HaveOccurred())
		Expect(class.Define("sortedLnameUsers2", lnameAsc)).To(Succeed())
		Expect(class.Define("lnameThenOldest", mustSortBy("users", "lname:desc", "age"))).To(Succeed())

		users = observe.NewList(testutils.Users()...)
		obj, err = class.Create(map[string]any{"users": users})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		obj.Destroy()
	})

	It("sorts ascending by default and resorts on a property change", func() {
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Jaime", "Robb"}))

		testutils.Set(users.FirstObject(), "fname", "Tyrion")

		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Robb", "Tyrion"}))
	})

	It("sorts descending and resorts on a property change", func() {
		Expect(names(obj, "sortedLnameUsers", "lname")).To(Equal([]string{"Stark", "Stark", "Lannister", "Lannister"}))

		testutils.Set(users.LastObject(), "lname", "Baratheon")

		Expect(names(obj, "sortedLnameUsers", "lname")).To(Equal([]string{"Stark", "Lannister", "Lannister", "Baratheon"}))
	})

	It("supports the list form", func() {
		Expect(names(obj, "sortedLnameUsers2", "lname")).To(Equal([]string{"Lannister", "Lannister", "Stark", "Stark"}))

		testutils.Set(users.FirstObject(), "lname", "Baratheon")

		Expect(names(obj, "sortedLnameUsers2", "lname")).To(Equal([]string{"Baratheon", "Lannister", "Stark", "Stark"}))
	})

	It("resorts on secondary and primary key changes", func() {
		Expect(names(obj, "lnameThenOldest", "fname")).To(Equal([]string{"Bran", "Robb", "Cersei", "Jaime"}))

		testutils.Set(users.At(0), "age", int64(26))
		Expect(names(obj, "lnameThenOldest", "fname")).To(Equal([]string{"Bran", "Robb", "Jaime", "Cersei"}))

		testutils.Set(users.At(1), "lname", "Baratheon")
		Expect(names(obj, "lnameThenOldest", "fname")).To(Equal([]string{"Bran", "Jaime", "Cersei", "Robb"}))
	})

	It("resorts when items are added or removed", func() {
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Jaime", "Robb"}))
		Expect(names(obj, "lnameThenOldest", "fname")).To(Equal([]string{"Bran", "Robb", "Cersei", "Jaime"}))

		users.Push(testutils.User("Joffrey", "Baratheon", 15))
		users.Push(testutils.User("Ned", "Stark", 54))

		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Jaime", "Joffrey", "Ned", "Robb"}))
		Expect(names(obj, "lnameThenOldest", "fname")).To(Equal([]string{"Bran", "Robb", "Ned", "Cersei", "Jaime", "Joffrey"}))

		_, err := users.RemoveAt(1)
		Expect(err).NotTo(HaveOccurred())
		_, err = users.RemoveAt(1)
		Expect(err).NotTo(HaveOccurred())

		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Jaime", "Joffrey", "Ned"}))
		Expect(names(obj, "lnameThenOldest", "fname")).To(Equal([]string{"Bran", "Ned", "Jaime", "Joffrey"}))
	})

	It("watches items added after creation", func() {
		joffrey := testutils.User("Joffrey", "Baratheon", 15)
		users.Push(joffrey)
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Jaime", "Joffrey", "Robb"}))

		joffrey.Set("fname", "Aegon")
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Aegon", "Bran", "Cersei", "Jaime", "Robb"}))
	})

	It("stops watching removed items", func() {
		Expect(obj.Get("sortedFnameUsers")).NotTo(BeEmpty())
		removed, err := users.RemoveAt(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(removed.(*object.Record).Watched()).To(BeFalse())

		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Robb"}))
		testutils.Set(removed, "fname", "Aaron")
		Expect(obj.IsFresh("sortedFnameUsers")).To(BeTrue())
	})

	It("resorts when single items are replaced or inserted", func() {
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Jaime", "Robb"}))

		replaced := users.At(0).(*object.Record)
		Expect(users.ReplaceAt(0, testutils.User("Arya", "Stark", 11))).To(Succeed())
		Expect(obj.IsFresh("sortedFnameUsers")).To(BeFalse())
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Arya", "Bran", "Cersei", "Robb"}))
		Expect(names(obj, "lnameThenOldest", "fname")).To(Equal([]string{"Bran", "Arya", "Robb", "Cersei"}))

		Expect(replaced.Watched()).To(BeFalse())
		replaced.Set("fname", "Aaron")
		Expect(obj.IsFresh("sortedFnameUsers")).To(BeTrue())

		sansa := testutils.User("Sansa", "Stark", 13)
		Expect(users.InsertAt(1, sansa)).To(Succeed())
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Arya", "Bran", "Cersei", "Robb", "Sansa"}))

		sansa.Set("fname", "Alys")
		Expect(obj.IsFresh("sortedFnameUsers")).To(BeFalse())
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Alys", "Arya", "Bran", "Cersei", "Robb"}))
	})

	It("resorts when the entire collection is replaced", func() {
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Jaime", "Robb"}))

		Expect(obj.Set("users", []any{
			testutils.User("Daenerys", "Targaryen", 23),
			testutils.User("Margaery", "Tyrell", 25),
			testutils.User("Jon", "Snow", 28),
		})).To(Succeed())

		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Daenerys", "Jon", "Margaery"}))

		// the old list is no longer watched
		Expect(users.Watched()).To(BeFalse())
		users.Push(testutils.User("Arya", "Stark", 11))
		Expect(obj.IsFresh("sortedFnameUsers")).To(BeTrue())
	})

	It("resorts when the content of the list is replaced", func() {
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Jaime", "Robb"}))
		users.Replace(testutils.User("Jon", "Snow", 28), testutils.User("Arya", "Stark", 11))
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Arya", "Jon"}))
	})

	It("returns an empty list for null and empty sources", func() {
		Expect(obj.Set("users", []any{})).To(Succeed())
		v, err := obj.Get("sortedFnameUsers")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal([]any{}))

		Expect(obj.Set("users", nil)).To(Succeed())
		v, err = obj.Get("sortedFnameUsers")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal([]any{}))

		Expect(obj.Set("users", observe.NewList())).To(Succeed())
		v, err = obj.Get("sortedFnameUsers")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal([]any{}))
	})

	It("refuses to set a sorted attribute", func() {
		err := obj.Set("sortedFnameUsers", []any{})
		Expect(err).To(MatchError(computed.ErrReadOnly))
		Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Jaime", "Robb"}))

		_, err = class.Create(map[string]any{"sortedFnameUsers": []any{}})
		Expect(err).To(MatchError(computed.ErrReadOnly))
	})

	Describe("cache states", func() {
		It("starts Stale and becomes Fresh on read", func() {
			Expect(obj.State("sortedFnameUsers")).To(Equal(observe.Stale))
			_, err := obj.Get("sortedFnameUsers")
			Expect(err).NotTo(HaveOccurred())
			Expect(obj.State("sortedFnameUsers")).To(Equal(observe.Fresh))
			Expect(obj.State("sortedFnameUsers").String()).To(Equal("Fresh"))
			Expect(obj.IsFresh("unknown")).To(BeFalse())
		})

		It("returns the cached value while Fresh", func() {
			first, err := obj.Get("sortedFnameUsers")
			Expect(err).NotTo(HaveOccurred())
			second, err := obj.Get("sortedFnameUsers")
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
			Expect(&second.([]any)[0]).To(BeIdenticalTo(&first.([]any)[0]))
		})

		It("ignores unrelated property changes", func() {
			_, err := obj.Get("sortedFnameUsers")
			Expect(err).NotTo(HaveOccurred())
			_, err = obj.Get("lnameThenOldest")
			Expect(err).NotTo(HaveOccurred())

			testutils.Set(users.At(0), "house", "Lannister")
			Expect(obj.IsFresh("sortedFnameUsers")).To(BeTrue())
			Expect(obj.IsFresh("lnameThenOldest")).To(BeTrue())

			testutils.Set(users.At(0), "age", int64(35))
			Expect(obj.IsFresh("sortedFnameUsers")).To(BeTrue())
			Expect(obj.IsFresh("lnameThenOldest")).To(BeFalse())
		})

		It("invalidates on unrelated attribute reassignment only for dependents", func() {
			_, err := obj.Get("sortedFnameUsers")
			Expect(err).NotTo(HaveOccurred())
			Expect(obj.Set("title", "Game of Thrones")).To(Succeed())
			Expect(obj.IsFresh("sortedFnameUsers")).To(BeTrue())
			Expect(obj.Get("title")).To(Equal("Game of Thrones"))
		})

		It("is idempotent under redundant notifications", func() {
			first := names(obj, "lnameThenOldest", "fname")
			obj.Notify("users")
			obj.Notify("users")
			Expect(obj.IsFresh("lnameThenOldest")).To(BeFalse())
			Expect(names(obj, "lnameThenOldest", "fname")).To(Equal(first))
			Expect(names(obj, "lnameThenOldest", "fname")).To(Equal(first))
		})
	})

	Describe("plain collections", func() {
		It("requires a notification after in-place changes", func() {
			plain := testutils.PlainUsers()
			Expect(obj.Set("users", plain)).To(Succeed())
			Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Jaime", "Robb"}))

			testutils.Set(plain[0], "fname", "Tyrion")
			Expect(obj.IsFresh("sortedFnameUsers")).To(BeTrue())

			obj.Notify("users")
			Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Robb", "Tyrion"}))
		})

		It("watches records in plain slices", func() {
			records := testutils.Users()
			Expect(obj.Set("users", records)).To(Succeed())
			Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Jaime", "Robb"}))

			testutils.Set(records[0], "fname", "Tyrion")
			Expect(names(obj, "sortedFnameUsers", "fname")).To(Equal([]string{"Bran", "Cersei", "Robb", "Tyrion"}))
		})
	})

	Describe("destroy", func() {
		It("releases watches and refuses access", func() {
			_, err := obj.Get("sortedFnameUsers")
			Expect(err).NotTo(HaveOccurred())
			obj.Destroy()

			Expect(users.Watched()).To(BeFalse())
			Expect(users.At(0).(*object.Record).Watched()).To(BeFalse())

			_, err = obj.Get("sortedFnameUsers")
			Expect(err).To(MatchError(observe.ErrDestroyed))
			Expect(obj.Set("users", nil)).To(MatchError(observe.ErrDestroyed))
			Expect(obj.SetContent(nil)).To(MatchError(observe.ErrDestroyed))
			obj.Notify("users")
			obj.Destroy()
		})
	})
})

var _ = Describe("Nested sort paths", func() {
	It("resorts when a nested record changes", func() {
		class := observe.NewClass("people")
		Expect(class.Define("byCity", mustSortBy("people", "address.city", "name"))).To(Succeed())

		winterfell := object.NewRecord(object.Unstructured{"city": "Winterfell"})
		people := observe.NewList(
			object.NewRecord(object.Unstructured{"name": "Arya", "address": winterfell}),
			object.NewRecord(object.Unstructured{"name": "Tyrion", "address": object.NewRecord(object.Unstructured{"city": "Casterly Rock"})}),
		)
		obj, err := class.Create(map[string]any{"people": people})
		Expect(err).NotTo(HaveOccurred())

		Expect(names(obj, "byCity", "name")).To(Equal([]string{"Tyrion", "Arya"}))
		winterfell.Set("city", "Braavos")
		Expect(names(obj, "byCity", "name")).To(Equal([]string{"Arya", "Tyrion"}))
	})
})

var _ = Describe("Proxy objects", func() {
	It("sorts their own content", func() {
		class := observe.NewClass("proxy", observe.WithLogger(logger))
		Expect(class.Define("byAge", mustSortBy(computed.Self, "age"))).To(Succeed())

		content := observe.NewList(testutils.Users()...)
		obj, err := class.CreateWithContent(content, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(obj.Content()).To(BeIdenticalTo(content))

		Expect(names(obj, "byAge", "fname")).To(Equal([]string{"Bran", "Robb", "Cersei", "Jaime"}))

		content.Push(testutils.User("Rickon", "Stark", 3))
		Expect(names(obj, "byAge", "fname")).To(Equal([]string{"Rickon", "Bran", "Robb", "Cersei", "Jaime"}))

		testutils.Set(content.At(0), "age", int64(1))
		Expect(names(obj, "byAge", "fname")).To(Equal([]string{"Jaime", "Rickon", "Bran", "Robb", "Cersei"}))

		Expect(obj.SetContent(observe.NewList(testutils.User("Jon", "Snow", 28)))).To(Succeed())
		Expect(names(obj, "byAge", "fname")).To(Equal([]string{"Jon"}))
		Expect(content.Watched()).To(BeFalse())

		self, err := obj.Get(computed.Self)
		Expect(err).NotTo(HaveOccurred())
		Expect(self).To(BeIdenticalTo(obj))
		Expect(obj.Set(computed.Self, nil)).To(MatchError(observe.ErrInvalidAttribute))
	})

	It("returns an empty list without content", func() {
		class := observe.NewClass("proxy")
		Expect(class.Define("byAge", mustSortBy(computed.Self, "age"))).To(Succeed())
		obj, err := class.Create(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(obj.Get("byAge")).To(Equal([]any{}))
	})
})

var _ = Describe("Chained derived attributes", func() {
	It("invalidates transitively", func() {
		class := observe.NewClass("chain")
		// defined before its source on purpose
		Expect(class.Define("oldestFirstThenName", mustSortBy("byName", "age:desc"))).To(Succeed())
		Expect(class.Define("byName", mustSortBy("users", "fname"))).To(Succeed())
		Expect(class.Define("count", observe.NewDerived("count", func(h computed.Host) any {
			v, _ := h.Get("byName")
			return len(v.([]any))
		}, computed.Dependency{Key: "byName"}))).To(Succeed())

		users := observe.NewList(testutils.Users()...)
		obj, err := class.Create(map[string]any{"users": users})
		Expect(err).NotTo(HaveOccurred())

		Expect(class.Terminals()).To(Equal([]string{"oldestFirstThenName", "count"}))
		Expect(names(obj, "oldestFirstThenName", "fname")).To(Equal([]string{"Jaime", "Cersei", "Robb", "Bran"}))
		Expect(obj.Get("count")).To(Equal(4))

		testutils.Set(users.At(3), "age", int64(40))
		Expect(obj.IsFresh("byName")).To(BeTrue())
		Expect(obj.IsFresh("oldestFirstThenName")).To(BeFalse())
		Expect(names(obj, "oldestFirstThenName", "fname")).To(Equal([]string{"Bran", "Jaime", "Cersei", "Robb"}))

		users.Push(testutils.User("Ned", "Stark", 54))
		Expect(obj.IsFresh("byName")).To(BeFalse())
		Expect(obj.IsFresh("oldestFirstThenName")).To(BeFalse())
		Expect(obj.IsFresh("count")).To(BeFalse())
		Expect(obj.Get("count")).To(Equal(5))
		Expect(names(obj, "oldestFirstThenName", "fname")).To(Equal([]string{"Ned", "Bran", "Jaime", "Cersei", "Robb"}))

		Expect(obj.Set("count", 1)).To(MatchError(computed.ErrReadOnly))
	})
})

var _ = Describe("Class definitions", func() {
	var class *observe.Class

	BeforeEach(func() {
		class = observe.NewClass("test")
	})

	It("reports its attributes", func() {
		v := mustSortBy("users", "lname:desc", "age")
		Expect(class.MustDefine("sorted", v).Name()).To(Equal("test"))
		Expect(class.Attributes()).To(Equal([]string{"sorted"}))
		Expect(class.IsDerived("sorted")).To(BeTrue())
		Expect(class.IsDerived("users")).To(BeFalse())
		Expect(class.Dependencies("sorted")).To(Equal([]computed.Dependency{
			{Key: "users", Each: "lname"}, {Key: "users", Each: "age"},
		}))
		Expect(class.Dependencies("users")).To(BeNil())
		p, ok := class.Property("sorted")
		Expect(ok).To(BeTrue())
		Expect(p).To(BeIdenticalTo(v))
		Expect(class.Dependents("users")).To(Equal([]string{"sorted"}))
		Expect(class.Dependents("nothing")).To(BeNil())
		Expect(class.Terminals()).To(Equal([]string{"sorted"}))
	})

	It("rejects duplicates", func() {
		Expect(class.Define("sorted", mustSortBy("users", "fname"))).To(Succeed())
		Expect(class.Define("sorted", mustSortBy("users", "lname"))).To(MatchError(observe.ErrDuplicateAttribute))
	})

	It("rejects cycles", func() {
		Expect(class.Define("a", mustSortBy("a", "fname"))).To(MatchError(observe.ErrDependencyCycle))
		Expect(class.Define("a", mustSortBy("b", "fname"))).To(Succeed())
		Expect(class.Define("b", mustSortBy("c", "fname"))).To(Succeed())
		Expect(class.Define("c", mustSortBy("a", "fname"))).To(MatchError(observe.ErrDependencyCycle))
	})

	It("rejects invalid names and properties", func() {
		Expect(class.Define("", mustSortBy("users", "fname"))).To(MatchError(observe.ErrInvalidAttribute))
		Expect(class.Define(computed.Self, mustSortBy("users", "fname"))).To(MatchError(observe.ErrInvalidAttribute))
		Expect(class.Define("x", nil)).To(MatchError(observe.ErrInvalidAttribute))
		Expect(class.Define("y", observe.NewDerived("y", func(computed.Host) any { return nil },
			computed.Dependency{}))).To(MatchError(observe.ErrInvalidAttribute))
	})

	It("is sealed after the first instance", func() {
		_, err := class.Create(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(class.Define("late", mustSortBy("users", "fname"))).To(MatchError(observe.ErrInvalidAttribute))
	})

	It("refuses to create an object with the self attribute", func() {
		_, err := class.Create(map[string]any{computed.Self: nil})
		Expect(err).To(MatchError(observe.ErrInvalidAttribute))
	})

	It("panics in MustDefine", func() {
		Expect(func() { class.MustDefine("", nil) }).To(Panic())
	})
})
